package registry

// CompanyStatusActive is the registry status string for live companies.
// The active-only crawl policy compares against this value.
const CompanyStatusActive = "active"

// Profile is a company profile as returned by the registry.
type Profile struct {
	// CompanyNumber is the registry number of the company.
	CompanyNumber string `json:"company_number"`

	// CompanyName is the current registered name.
	CompanyName string `json:"company_name"`

	// CompanyStatus is the registry status (e.g., "active", "dissolved").
	CompanyStatus string `json:"company_status"`

	// CompanyType is the company type code (e.g., "ltd", "plc").
	CompanyType string `json:"type"`

	// DateOfCreation is the incorporation date in YYYY-MM-DD format.
	DateOfCreation string `json:"date_of_creation"`
}

// DateOfBirth is the partial date of birth the registry publishes for
// natural-person officers. Day is withheld.
type DateOfBirth struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Officer is one entry in a company's officer list.
type Officer struct {
	// Name is the officer's display name, typically "SURNAME, Forename"
	// for natural persons and the full registered name for corporate
	// officers.
	Name string `json:"name"`

	// OfficerRole is the role code (e.g., "director", "secretary").
	OfficerRole string `json:"officer_role"`

	// AppointedOn is the appointment date in YYYY-MM-DD format.
	AppointedOn string `json:"appointed_on"`

	// ResignedOn is the resignation date, empty if still in office.
	ResignedOn string `json:"resigned_on"`

	// DateOfBirth is present for natural-person officers only.
	DateOfBirth *DateOfBirth `json:"date_of_birth"`
}

// officersResponse is the paginated officer-list envelope.
type officersResponse struct {
	Items        []Officer `json:"items"`
	TotalResults int       `json:"total_results"`
}

// OfficerMatch is one result from an officer search, ranked by the
// registry's own relevance scoring.
type OfficerMatch struct {
	// Title is the matched officer name as indexed by the registry.
	Title string `json:"title"`

	// OfficerID is the registry's officer identifier, extracted from
	// the result's self link.
	OfficerID string `json:"officer_id"`
}

// officerSearchResponse is the paginated officer-search envelope.
type officerSearchResponse struct {
	Items []struct {
		Title string `json:"title"`
		Links struct {
			Self string `json:"self"`
		} `json:"links"`
	} `json:"items"`
	TotalResults int `json:"total_results"`
}

// OfficerAppointment is one appointment from an officer's full
// appointment list, spanning every company the officer is recorded at.
type OfficerAppointment struct {
	// CompanyNumber is the company the officer is appointed to.
	CompanyNumber string

	// CompanyName is the registered name of that company.
	CompanyName string

	// CompanyStatus is the registry status of that company.
	CompanyStatus string

	// Role is the officer role code.
	Role string

	// AppointedOn is the appointment date in YYYY-MM-DD format.
	AppointedOn string

	// ResignedOn is the resignation date, empty if still in office.
	ResignedOn string
}

// appointmentsResponse is the officer-appointments envelope. The nested
// appointed_to object is flattened into OfficerAppointment for callers.
type appointmentsResponse struct {
	Items []struct {
		OfficerRole string `json:"officer_role"`
		AppointedOn string `json:"appointed_on"`
		ResignedOn  string `json:"resigned_on"`
		AppointedTo struct {
			CompanyNumber string `json:"company_number"`
			CompanyName   string `json:"company_name"`
			CompanyStatus string `json:"company_status"`
		} `json:"appointed_to"`
	} `json:"items"`
}
