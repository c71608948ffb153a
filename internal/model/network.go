package model

import "time"

// Company is a single company node discovered during a network scan.
// It is created on the first successful profile fetch and is immutable
// thereafter: the visited-company set in the crawler guarantees a company
// is expanded at most once, so Depth is the minimum BFS distance from
// any seed company and is never decreased.
type Company struct {
	// CompanyNumber is the registry number identifying the company.
	CompanyNumber string `json:"company_number"`

	// CompanyName is the registered name at scan time.
	CompanyName string `json:"company_name"`

	// CompanyStatus is the registry status (e.g., "active", "dissolved").
	CompanyStatus string `json:"company_status"`

	// CompanyType is the registry company type (e.g., "ltd", "plc").
	CompanyType string `json:"company_type"`

	// IncorporationDate is the date of creation as reported by the registry.
	IncorporationDate string `json:"incorporation_date"`

	// Depth is the BFS distance (officer hops) from the nearest seed.
	Depth int `json:"depth"`

	// OfficerCount is the number of officers recorded for this company
	// after the active-only filter was applied.
	OfficerCount int `json:"officer_count"`
}

// DateOfBirth is a partial date of birth as published by the registry.
// The registry only exposes month and year for privacy reasons.
type DateOfBirth struct {
	Month int `json:"month,omitempty"`
	Year  int `json:"year,omitempty"`
}

// Appointment records one officer position at one company.
// It belongs to exactly one Company and one Director and is immutable
// once recorded.
type Appointment struct {
	// CompanyNumber is the company the officer is appointed to.
	CompanyNumber string `json:"company_number"`

	// CompanyName is the company name, denormalized for report output.
	CompanyName string `json:"company_name"`

	// Role is the officer role (e.g., "director", "secretary").
	Role string `json:"role"`

	// AppointedOn is the appointment date in YYYY-MM-DD format.
	AppointedOn string `json:"appointed_on"`

	// ResignedOn is the resignation date, empty if still appointed.
	ResignedOn string `json:"resigned_on,omitempty"`

	// DateOfBirth is the partial date of birth, if published.
	DateOfBirth *DateOfBirth `json:"date_of_birth,omitempty"`
}

// Director is one officer identity deduplicated across companies.
// Identity is keyed by normalized name plus appointment date (see
// DirectorKey); appointments are appended as more companies are scanned.
type Director struct {
	// Name is the display name as first observed.
	Name string `json:"name"`

	// Appointments lists every observed appointment for this identity.
	Appointments []Appointment `json:"appointments"`

	// CompanyCount is the number of recorded appointments.
	// Kept in sync by Network.AddConnection.
	CompanyCount int `json:"company_count"`
}

// Connection is one observed (company, director, role) edge recorded at
// the depth it was discovered. Connections mirror appointments 1:1 and
// duplicates across depths are intentionally not deduplicated.
type Connection struct {
	CompanyNumber string `json:"company_number"`
	CompanyName   string `json:"company_name"`
	DirectorID    string `json:"director_id"`
	DirectorName  string `json:"director_name"`
	Role          string `json:"role"`
	Depth         int    `json:"depth"`
}

// Statistics summarizes a finished network snapshot.
// Values are recomputed from the snapshot by Finalize, never maintained
// incrementally, so they always reflect only successfully expanded items.
type Statistics struct {
	TotalCompanies   int `json:"total_companies"`
	TotalDirectors   int `json:"total_directors"`
	TotalConnections int `json:"total_connections"`
	DepthReached     int `json:"depth_reached"`
}

// Network is a director network snapshot assembled during a crawl.
//
// Design decision: companies and directors are stored in maps for O(1)
// lookup, but Go maps do not preserve insertion order. Downstream
// consumers (shared-director ranking, cluster discovery) require stable
// insertion-order iteration, so we additionally track the order in which
// keys were first seen.
type Network struct {
	// SeedCompanies are the company numbers the crawl started from.
	SeedCompanies []string `json:"seed_companies"`

	// MaxDepth is the depth bound the crawl ran with.
	MaxDepth int `json:"max_depth"`

	// ScannedAt is when the snapshot was finalized.
	ScannedAt time.Time `json:"scanned_at"`

	// Companies maps company number to company node.
	Companies map[string]*Company `json:"companies"`

	// CompanyOrder lists company numbers in first-recorded order.
	CompanyOrder []string `json:"company_order"`

	// Directors maps director identity key to director identity.
	Directors map[string]*Director `json:"directors"`

	// DirectorOrder lists director keys in first-seen order.
	DirectorOrder []string `json:"director_order"`

	// Connections lists observed edges in discovery order.
	Connections []Connection `json:"connections"`

	// Statistics summarizes the snapshot. Valid after Finalize.
	Statistics Statistics `json:"statistics"`
}

// NewNetwork creates an empty snapshot for the given seeds and depth bound.
func NewNetwork(seeds []string, maxDepth int) *Network {
	return &Network{
		SeedCompanies: seeds,
		MaxDepth:      maxDepth,
		Companies:     make(map[string]*Company),
		CompanyOrder:  make([]string, 0),
		Directors:     make(map[string]*Director),
		DirectorOrder: make([]string, 0),
		Connections:   make([]Connection, 0),
	}
}

// AddCompany records a company node. The first recording wins: if the
// company is already present the call is a no-op, which preserves the
// set-once depth invariant.
func (n *Network) AddCompany(c *Company) {
	if _, ok := n.Companies[c.CompanyNumber]; ok {
		return
	}
	n.Companies[c.CompanyNumber] = c
	n.CompanyOrder = append(n.CompanyOrder, c.CompanyNumber)
}

// HasCompany reports whether a company node has been recorded.
func (n *Network) HasCompany(companyNumber string) bool {
	_, ok := n.Companies[companyNumber]
	return ok
}

// AddConnection records one observed appointment: the appointment is
// appended to the director identity (created on first sighting) and a
// mirroring Connection edge is added at the given depth.
func (n *Network) AddConnection(directorID, displayName string, appt Appointment, depth int) {
	dir, ok := n.Directors[directorID]
	if !ok {
		dir = &Director{
			Name:         displayName,
			Appointments: make([]Appointment, 0, 1),
		}
		n.Directors[directorID] = dir
		n.DirectorOrder = append(n.DirectorOrder, directorID)
	}

	dir.Appointments = append(dir.Appointments, appt)
	dir.CompanyCount = len(dir.Appointments)

	n.Connections = append(n.Connections, Connection{
		CompanyNumber: appt.CompanyNumber,
		CompanyName:   appt.CompanyName,
		DirectorID:    directorID,
		DirectorName:  displayName,
		Role:          appt.Role,
		Depth:         depth,
	})
}

// Finalize computes summary statistics over the finished snapshot and
// stamps the scan time. It must be called once, after crawling stops.
func (n *Network) Finalize() {
	n.ScannedAt = time.Now().UTC()
	n.Statistics = Statistics{
		TotalCompanies:   len(n.Companies),
		TotalDirectors:   len(n.Directors),
		TotalConnections: len(n.Connections),
	}
	for _, c := range n.Companies {
		if c.Depth > n.Statistics.DepthReached {
			n.Statistics.DepthReached = c.Depth
		}
	}
}

// CompaniesInOrder returns company nodes in first-recorded order.
func (n *Network) CompaniesInOrder() []*Company {
	out := make([]*Company, 0, len(n.CompanyOrder))
	for _, num := range n.CompanyOrder {
		if c, ok := n.Companies[num]; ok {
			out = append(out, c)
		}
	}
	return out
}

// DirectorsInOrder returns director identities in first-seen order
// together with their identity keys.
func (n *Network) DirectorsInOrder() []DirectorEntry {
	out := make([]DirectorEntry, 0, len(n.DirectorOrder))
	for _, key := range n.DirectorOrder {
		if d, ok := n.Directors[key]; ok {
			out = append(out, DirectorEntry{Key: key, Director: d})
		}
	}
	return out
}

// DirectorEntry pairs a director identity with its key for ordered iteration.
type DirectorEntry struct {
	Key      string
	Director *Director
}
