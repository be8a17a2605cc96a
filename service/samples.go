package service

import "github.com/anthonydaros/ContractAI/model"

// SampleContract is a built-in demo document users can analyze without
// uploading anything.
type SampleContract struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	RiskLevel   model.RiskLevel `json:"risk_level"`
	Content     string          `json:"content"`
}

// SamplePreview is the listing shape: full content replaced by a short
// excerpt.
type SamplePreview struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	RiskLevel   model.RiskLevel `json:"risk_level"`
	Preview     string          `json:"preview"`
}

const previewLength = 200

// SamplesService serves the demo contracts in a fixed display order.
type SamplesService struct {
	samples map[string]SampleContract
	order   []string
}

func NewSamplesService() *SamplesService {
	s := &SamplesService{
		samples: make(map[string]SampleContract),
	}
	for _, sample := range builtinSamples {
		s.samples[sample.ID] = sample
		s.order = append(s.order, sample.ID)
	}
	return s
}

// List returns previews of all samples in display order.
func (s *SamplesService) List() []SamplePreview {
	previews := make([]SamplePreview, 0, len(s.order))
	for _, id := range s.order {
		sample := s.samples[id]
		preview := sample.Content
		if len(preview) > previewLength {
			preview = preview[:previewLength] + "..."
		}
		previews = append(previews, SamplePreview{
			ID:          sample.ID,
			Name:        sample.Name,
			Description: sample.Description,
			RiskLevel:   sample.RiskLevel,
			Preview:     preview,
		})
	}
	return previews
}

// Get returns a sample by ID.
func (s *SamplesService) Get(id string) (SampleContract, bool) {
	sample, ok := s.samples[id]
	return sample, ok
}

var builtinSamples = []SampleContract{
	{
		ID:          "fair",
		Name:        "Fair Rental Agreement",
		Description: "Balanced agreement with reasonable terms and standard protections",
		RiskLevel:   model.RiskLow,
		Content: `RESIDENTIAL LEASE AGREEMENT

CLAUSE 1 - SUBJECT MATTER
The LANDLORD hereby leases to the TENANT the property located at
123 Flower Street, for exclusively residential purposes.

CLAUSE 2 - TERM
The lease term is 12 (twelve) months, beginning on January 1, 2025.
Upon expiration, the agreement may be renewed by mutual consent.

CLAUSE 3 - RENT
The monthly rent is $1,500.00, with annual adjustment based on the
Consumer Price Index (CPI) applied on the contract anniversary date.

CLAUSE 4 - TERMINATION
Either party may terminate this agreement with 30 days written notice,
without penalty after the 12th month of tenancy.

CLAUSE 5 - IMPROVEMENTS
Necessary improvements shall be reimbursed to the TENANT.
Useful improvements require prior written authorization.

CLAUSE 6 - SECURITY DEPOSIT
The TENANT shall provide a security deposit equivalent to 2 months' rent,
to be returned within 30 days after lease termination, minus any damages.`,
	},
	{
		ID:          "abusive",
		Name:        "Aggressive NDA",
		Description: "Agreement with highly restrictive and potentially abusive clauses",
		RiskLevel:   model.RiskHigh,
		Content: `LEASE AGREEMENT

CLAUSE 1 - SUBJECT MATTER
The owner rents the property to the tenant under the conditions below.

CLAUSE 2 - TERM
Term of 36 months. The tenant MAY NOT terminate the agreement before
expiration, under penalty of 6 months' rent as fine.

CLAUSE 3 - RENT
Rent of $2,000.00 with monthly adjustment by whichever index the
LANDLORD deems most appropriate.

CLAUSE 4 - INSPECTIONS
The LANDLORD may inspect the property AT ANY TIME, without prior
notice to the tenant.

CLAUSE 5 - IMPROVEMENTS
All improvements made by the TENANT shall be incorporated into the
property without any compensation.

CLAUSE 6 - SECURITY DEPOSIT
The TENANT must pay 6 months' rent as advance security deposit,
which shall not be refunded under any circumstances.

CLAUSE 7 - INDEMNIFICATION
The TENANT shall indemnify the LANDLORD for any and all claims,
damages, losses, without any limitation whatsoever.`,
	},
	{
		ID:          "confusing",
		Name:        "Confusing Service Contract",
		Description: "Poorly written agreement with ambiguous terms and unclear obligations",
		RiskLevel:   model.RiskMedium,
		Content: `TEMPORARY USE AGREEMENT THING

1) The GRANTOR provides space for the GRANTEE to use, maybe.

2) The amount will be discussed verbally each month and may vary.

3) Not sure when it starts or ends, we'll figure it out later.

4) If there's a problem, we'll talk about it, or maybe not.

5) The GRANTEE can do renovations if they want, but then it belongs
   to the GRANTOR, or maybe not, depends.

6) This contract is valid or not valid depending on the situation,
   parties agree to whatever is best at the time.

7) Fees and charges may apply, amounts to be determined later.

8) Either party can change terms at any time without notice.`,
	},
}
