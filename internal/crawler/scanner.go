package crawler

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/signalwatch/signalwatch/internal/model"
	"github.com/signalwatch/signalwatch/internal/registry"
)

// Default crawl bounds. Both are hard caps, not error conditions:
// hitting them is the designed stopping condition for graphs that are
// effectively unbounded (nominee directors can link thousands of
// companies within two hops).
const (
	// DefaultMaxDepth limits officer-hop distance from the seeds.
	DefaultMaxDepth = 1

	// DefaultMaxCompanies limits total expanded companies per crawl.
	DefaultMaxCompanies = 100

	// bestMatchWindow is how many top search results are examined for
	// an exact title match before falling back to the first result.
	bestMatchWindow = 5
)

// Registry is the registry access contract the scanner consumes.
// The production implementation is registry.Client; tests substitute a
// scripted fake. Implementations handle pagination, retries, and rate
// limiting internally; the scanner only sees blocking calls that may
// fail.
type Registry interface {
	// GetProfile fetches a company profile.
	GetProfile(ctx context.Context, companyNumber string) (*registry.Profile, error)

	// GetOfficers fetches a company's complete officer list.
	GetOfficers(ctx context.Context, companyNumber string) ([]registry.Officer, error)

	// SearchOfficers searches the officer index by display name.
	SearchOfficers(ctx context.Context, name string) ([]registry.OfficerMatch, error)

	// GetAppointments fetches an officer's full appointment list.
	GetAppointments(ctx context.Context, officerID string) ([]registry.OfficerAppointment, error)
}

// Scanner discovers director networks by breadth-first expansion from
// seed companies. Configuration is immutable after construction; each
// Scan call owns its frontier and visited sets, so a single Scanner may
// run independent crawls.
type Scanner struct {
	// api is the registry access facade.
	api Registry

	// maxDepth bounds officer-hop distance from the seeds.
	maxDepth int

	// maxCompanies bounds how many companies are expanded per crawl.
	maxCompanies int

	// activeOnly excludes dissolved companies and resigned officers
	// from both recording and further expansion.
	activeOnly bool

	// isCorporateOfficer decides which officers skip search fan-out.
	isCorporateOfficer CorporateOfficerPredicate

	// logger receives crawl progress and failure logging.
	logger *slog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithMaxDepth sets the maximum officer-hop distance from the seeds.
// 0 expands only the seed companies themselves.
func WithMaxDepth(depth int) ScannerOption {
	return func(s *Scanner) {
		if depth >= 0 {
			s.maxDepth = depth
		}
	}
}

// WithMaxCompanies sets the maximum number of companies to expand.
func WithMaxCompanies(maxCompanies int) ScannerOption {
	return func(s *Scanner) {
		if maxCompanies > 0 {
			s.maxCompanies = maxCompanies
		}
	}
}

// WithActiveOnly controls the active-only filter. When false, dissolved
// companies and resigned officers are recorded and expanded.
func WithActiveOnly(activeOnly bool) ScannerOption {
	return func(s *Scanner) {
		s.activeOnly = activeOnly
	}
}

// WithCorporateOfficerPredicate replaces the corporate-officer
// heuristic used to suppress officer search fan-out.
func WithCorporateOfficerPredicate(pred CorporateOfficerPredicate) ScannerOption {
	return func(s *Scanner) {
		if pred != nil {
			s.isCorporateOfficer = pred
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a Scanner over the given registry facade.
func NewScanner(api Registry, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		api:                api,
		maxDepth:           DefaultMaxDepth,
		maxCompanies:       DefaultMaxCompanies,
		activeOnly:         true,
		isCorporateOfficer: IsCorporateOfficer,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	return s
}

// frontierItem is one unit of pending work: a company to expand and the
// BFS depth it was discovered at. A company may be enqueued several
// times before being dequeued; the visited set ensures it is expanded
// at most once, at the depth of its first dequeue.
type frontierItem struct {
	companyNumber string
	depth         int
}

// crawlState holds the per-crawl visited sets. Claims use
// check-and-set under one mutex so concurrent expansion of same-depth
// items cannot double-claim a company or officer identity.
type crawlState struct {
	mu        sync.Mutex
	companies map[string]bool
	officers  map[string]bool
}

func newCrawlState() *crawlState {
	return &crawlState{
		companies: make(map[string]bool),
		officers:  make(map[string]bool),
	}
}

// companyVisited reports whether a company has been expanded.
func (st *crawlState) companyVisited(companyNumber string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.companies[companyNumber]
}

// markCompanyVisited records a company as expanded.
func (st *crawlState) markCompanyVisited(companyNumber string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.companies[companyNumber] = true
}

// companyCount returns the number of expanded companies.
func (st *crawlState) companyCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.companies)
}

// claimOfficer marks an officer identity as searched and reports
// whether this call made the claim. At most one caller wins, which
// guarantees at most one officer search per identity per crawl.
func (st *crawlState) claimOfficer(key string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.officers[key] {
		return false
	}
	st.officers[key] = true
	return true
}

// Scan crawls the director network reachable from the seed companies
// and returns the finalized snapshot.
//
// The frontier is processed strictly FIFO. Items are dropped silently
// when their company is already expanded or their depth exceeds the
// bound; per-item fetch failures are logged and skipped. The crawl
// stops when the frontier empties, the expanded-company count reaches
// the cap, or ctx is cancelled; in the last case the partial snapshot
// is finalized and returned alongside the context's error.
func (s *Scanner) Scan(ctx context.Context, seeds []string) (*model.Network, error) {
	state := newCrawlState()
	network := model.NewNetwork(seeds, s.maxDepth)

	frontier := make([]frontierItem, 0, len(seeds))
	for _, seed := range seeds {
		frontier = append(frontier, frontierItem{companyNumber: seed, depth: 0})
	}

	for len(frontier) > 0 && state.companyCount() < s.maxCompanies {
		select {
		case <-ctx.Done():
			s.logger.Warn("crawl cancelled",
				"pending", len(frontier),
				"expanded", state.companyCount(),
			)
			network.Finalize()
			return network, ctx.Err()
		default:
		}

		item := frontier[0]
		frontier = frontier[1:]

		if state.companyVisited(item.companyNumber) || item.depth > s.maxDepth {
			continue
		}

		frontier = append(frontier, s.expand(ctx, state, network, item)...)
	}

	network.Finalize()
	return network, nil
}

// expand processes one dequeued frontier item: fetches profile and
// officers, records the company node and its connections, and returns
// the depth+1 frontier items discovered through officer fan-out.
// A nil return means the item yielded nothing (skipped or failed).
func (s *Scanner) expand(ctx context.Context, state *crawlState, network *model.Network, item frontierItem) []frontierItem {
	s.logger.Info("expanding company",
		"company", item.companyNumber,
		"depth", item.depth,
	)

	profile, err := s.api.GetProfile(ctx, item.companyNumber)
	if err != nil {
		s.logFetchFailure("company profile", item.companyNumber, err)
		return nil
	}

	if s.activeOnly && profile.CompanyStatus != registry.CompanyStatusActive {
		s.logger.Debug("skipping inactive company",
			"company", item.companyNumber,
			"status", profile.CompanyStatus,
		)
		return nil
	}

	officers, err := s.api.GetOfficers(ctx, item.companyNumber)
	if err != nil {
		s.logFetchFailure("officer list", item.companyNumber, err)
		return nil
	}

	if s.activeOnly {
		active := officers[:0]
		for _, officer := range officers {
			if officer.ResignedOn == "" {
				active = append(active, officer)
			}
		}
		officers = active
	}

	network.AddCompany(&model.Company{
		CompanyNumber:     item.companyNumber,
		CompanyName:       profile.CompanyName,
		CompanyStatus:     profile.CompanyStatus,
		CompanyType:       profile.CompanyType,
		IncorporationDate: profile.DateOfCreation,
		Depth:             item.depth,
		OfficerCount:      len(officers),
	})
	state.markCompanyVisited(item.companyNumber)

	var next []frontierItem
	for _, officer := range officers {
		key := model.DirectorKey(officer.Name, officer.AppointedOn)

		appt := model.Appointment{
			CompanyNumber: item.companyNumber,
			CompanyName:   profile.CompanyName,
			Role:          officer.OfficerRole,
			AppointedOn:   officer.AppointedOn,
			ResignedOn:    officer.ResignedOn,
		}
		if officer.DateOfBirth != nil {
			appt.DateOfBirth = &model.DateOfBirth{
				Month: officer.DateOfBirth.Month,
				Year:  officer.DateOfBirth.Year,
			}
		}
		network.AddConnection(key, officer.Name, appt, item.depth)

		// Fan-out only below the depth bound, and at most once per
		// officer identity. The claim happens before the search so a
		// failed search still counts as done.
		if item.depth >= s.maxDepth {
			continue
		}
		if !state.claimOfficer(key) {
			continue
		}
		if s.isCorporateOfficer(officer.Name) {
			s.logger.Debug("corporate officer, skipping search",
				"officer", officer.Name,
			)
			continue
		}

		next = append(next, s.fanOut(ctx, state, officer.Name, item.depth)...)
	}

	return next
}

// fanOut searches one officer by name, fetches the best match's
// appointment list, and returns frontier items for every appointment
// whose company is unvisited and passes the active-only filter.
func (s *Scanner) fanOut(ctx context.Context, state *crawlState, officerName string, depth int) []frontierItem {
	matches, err := s.api.SearchOfficers(ctx, officerName)
	if err != nil {
		s.logFetchFailure("officer search", officerName, err)
		return nil
	}
	if len(matches) == 0 {
		return nil
	}

	best := bestMatch(matches, officerName)
	if best.OfficerID == "" {
		return nil
	}

	appointments, err := s.api.GetAppointments(ctx, best.OfficerID)
	if err != nil {
		s.logFetchFailure("officer appointments", officerName, err)
		return nil
	}

	var next []frontierItem
	for _, appointment := range appointments {
		if appointment.CompanyNumber == "" || state.companyVisited(appointment.CompanyNumber) {
			continue
		}
		if s.activeOnly && appointment.ResignedOn != "" {
			continue
		}
		if s.activeOnly && appointment.CompanyStatus != registry.CompanyStatusActive {
			continue
		}
		next = append(next, frontierItem{
			companyNumber: appointment.CompanyNumber,
			depth:         depth + 1,
		})
	}

	return next
}

// bestMatch selects the officer search result to follow: a
// case-insensitive exact title match within the top results wins,
// otherwise the registry's first (most relevant) result is used.
func bestMatch(matches []registry.OfficerMatch, officerName string) registry.OfficerMatch {
	limit := len(matches)
	if limit > bestMatchWindow {
		limit = bestMatchWindow
	}
	for i := 0; i < limit; i++ {
		if strings.EqualFold(matches[i].Title, officerName) {
			return matches[i]
		}
	}
	return matches[0]
}

// logFetchFailure logs one failed registry call. Not-found responses
// are routine during crawling (dissolved companies, corporate officers
// without records) and log at debug; everything else logs at warn.
// Either way the failure is non-fatal: the item simply yields nothing.
func (s *Scanner) logFetchFailure(what, id string, err error) {
	if registry.IsNotFound(err) {
		s.logger.Debug("registry resource not found",
			"what", what,
			"id", id,
		)
		return
	}
	s.logger.Warn("registry fetch failed",
		"what", what,
		"id", id,
		"error", err,
	)
}
