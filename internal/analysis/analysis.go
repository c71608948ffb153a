package analysis

import (
	"sort"

	"github.com/signalwatch/signalwatch/internal/model"
)

// SharedDirector is one director identity holding more than one
// appointment in the snapshot.
type SharedDirector struct {
	// Key is the director identity key within the snapshot.
	Key string `json:"key"`

	// Name is the display name as first observed.
	Name string `json:"name"`

	// Companies lists the distinct company numbers the identity is
	// appointed at, in appointment-discovery order.
	Companies []string `json:"companies"`

	// AppointmentCount is the total number of appointments observed,
	// duplicates at one company included. The ranking is keyed on this,
	// not on distinct companies: holding two posts at one company still
	// marks the identity as shared.
	AppointmentCount int `json:"appointment_count"`
}

// CompanyCount returns the number of distinct companies for this identity.
func (d SharedDirector) CompanyCount() int {
	return len(d.Companies)
}

// Cluster is a group of companies transitively connected through shared
// director identities. Members are listed in crawl-discovery order.
type Cluster struct {
	Companies []string `json:"companies"`
}

// Size returns the number of companies in the cluster.
func (c Cluster) Size() int {
	return len(c.Companies)
}

// SharedDirectors returns every identity holding two or more
// appointments, ordered by appointment count descending. Ties keep the
// identity's first-seen order, so output is stable for a given
// snapshot.
func SharedDirectors(network *model.Network) []SharedDirector {
	shared := make([]SharedDirector, 0)
	for _, entry := range network.DirectorsInOrder() {
		if len(entry.Director.Appointments) < 2 {
			continue
		}
		shared = append(shared, SharedDirector{
			Key:              entry.Key,
			Name:             entry.Director.Name,
			Companies:        distinctCompanies(entry.Director.Appointments),
			AppointmentCount: len(entry.Director.Appointments),
		})
	}

	sort.SliceStable(shared, func(i, j int) bool {
		return shared[i].AppointmentCount > shared[j].AppointmentCount
	})
	return shared
}

// Clusters returns groups of two or more companies connected through
// shared director identities. Companies without a shared director are
// not reported. Clusters are ordered by size descending; ties keep the
// order in which the cluster's first company was discovered.
func Clusters(network *model.Network) []Cluster {
	adjacency := buildAdjacency(network)

	visited := make(map[string]bool, len(adjacency))
	clusters := make([]Cluster, 0)

	// Iterate in discovery order so cluster membership and tie-breaks
	// are reproducible.
	for _, start := range network.CompanyOrder {
		if visited[start] || len(adjacency[start]) == 0 {
			continue
		}

		members := collectComponent(start, adjacency, visited)
		sortByDiscovery(members, network.CompanyOrder)
		clusters = append(clusters, Cluster{Companies: members})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i].Companies) > len(clusters[j].Companies)
	})
	return clusters
}

// buildAdjacency links every pair of companies that share a director
// identity. Only companies present in the snapshot participate:
// appointments pointing outside the crawl bound are ignored.
func buildAdjacency(network *model.Network) map[string]map[string]bool {
	adjacency := make(map[string]map[string]bool)

	link := func(a, b string) {
		if adjacency[a] == nil {
			adjacency[a] = make(map[string]bool)
		}
		adjacency[a][b] = true
	}

	for _, entry := range network.DirectorsInOrder() {
		companies := distinctCompanies(entry.Director.Appointments)
		present := companies[:0]
		for _, num := range companies {
			if network.HasCompany(num) {
				present = append(present, num)
			}
		}
		for i := 0; i < len(present); i++ {
			for j := i + 1; j < len(present); j++ {
				link(present[i], present[j])
				link(present[j], present[i])
			}
		}
	}
	return adjacency
}

// collectComponent walks one connected component with an explicit
// stack. Recursion is avoided so pathological chain-shaped networks
// cannot exhaust the goroutine stack.
func collectComponent(start string, adjacency map[string]map[string]bool, visited map[string]bool) []string {
	members := make([]string, 0)
	stack := []string{start}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[current] {
			continue
		}
		visited[current] = true
		members = append(members, current)
		for neighbor := range adjacency[current] {
			if !visited[neighbor] {
				stack = append(stack, neighbor)
			}
		}
	}
	return members
}

// sortByDiscovery orders company numbers by position in the crawl's
// discovery order. Map-range nondeterminism in the component walk is
// erased here.
func sortByDiscovery(members []string, order []string) {
	position := make(map[string]int, len(order))
	for i, num := range order {
		position[num] = i
	}
	sort.Slice(members, func(i, j int) bool {
		return position[members[i]] < position[members[j]]
	})
}

// distinctCompanies returns the distinct company numbers across a set
// of appointments, preserving first-appearance order.
func distinctCompanies(appointments []model.Appointment) []string {
	seen := make(map[string]bool, len(appointments))
	out := make([]string, 0, len(appointments))
	for _, appt := range appointments {
		if seen[appt.CompanyNumber] {
			continue
		}
		seen[appt.CompanyNumber] = true
		out = append(out, appt.CompanyNumber)
	}
	return out
}
