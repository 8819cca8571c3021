package kernel

type CandidateID string

func NewCandidateID(id string) CandidateID { return CandidateID(id) }
func (r CandidateID) String() string       { return string(r) }
func (r CandidateID) IsEmpty() bool        { return string(r) == "" }

type OfferID string

func NewOfferID(id string) OfferID { return OfferID(id) }
func (r OfferID) String() string   { return string(r) }
func (r OfferID) IsEmpty() bool    { return string(r) == "" }

type RequirementID string

func NewRequirementID(id string) RequirementID { return RequirementID(id) }
func (r RequirementID) String() string         { return string(r) }
func (r RequirementID) IsEmpty() bool          { return string(r) == "" }

type SubmissionID string

func NewSubmissionID(id string) SubmissionID { return SubmissionID(id) }
func (r SubmissionID) String() string        { return string(r) }
func (r SubmissionID) IsEmpty() bool         { return string(r) == "" }
