package model

import (
	"encoding/json"
	"testing"
)

// TestNetworkAddCompany tests company node recording.
func TestNetworkAddCompany(t *testing.T) {
	t.Parallel()

	t.Run("records company and preserves order", func(t *testing.T) {
		t.Parallel()

		n := NewNetwork([]string{"AA111111"}, 2)
		n.AddCompany(&Company{CompanyNumber: "AA111111", CompanyName: "Alpha Ltd", Depth: 0})
		n.AddCompany(&Company{CompanyNumber: "BB222222", CompanyName: "Beta Ltd", Depth: 1})

		if !n.HasCompany("AA111111") || !n.HasCompany("BB222222") {
			t.Fatal("expected both companies to be recorded")
		}

		companies := n.CompaniesInOrder()
		if len(companies) != 2 {
			t.Fatalf("expected 2 companies, got %d", len(companies))
		}
		if companies[0].CompanyNumber != "AA111111" || companies[1].CompanyNumber != "BB222222" {
			t.Errorf("companies out of insertion order: %v, %v",
				companies[0].CompanyNumber, companies[1].CompanyNumber)
		}
	})

	t.Run("first recording wins", func(t *testing.T) {
		t.Parallel()

		n := NewNetwork([]string{"AA111111"}, 2)
		n.AddCompany(&Company{CompanyNumber: "AA111111", Depth: 0})
		n.AddCompany(&Company{CompanyNumber: "AA111111", Depth: 2})

		if got := n.Companies["AA111111"].Depth; got != 0 {
			t.Errorf("expected depth to stay 0, got %d", got)
		}
		if len(n.CompanyOrder) != 1 {
			t.Errorf("expected 1 entry in company order, got %d", len(n.CompanyOrder))
		}
	})
}

// TestNetworkAddConnection tests appointment and edge recording.
func TestNetworkAddConnection(t *testing.T) {
	t.Parallel()

	t.Run("creates director on first sighting", func(t *testing.T) {
		t.Parallel()

		n := NewNetwork([]string{"AA111111"}, 1)
		key := DirectorKey("JOHN SMITH", "2020-01-15")

		n.AddConnection(key, "JOHN SMITH", Appointment{
			CompanyNumber: "AA111111",
			CompanyName:   "Alpha Ltd",
			Role:          "director",
			AppointedOn:   "2020-01-15",
		}, 0)

		dir, ok := n.Directors[key]
		if !ok {
			t.Fatal("expected director to be created")
		}
		if dir.Name != "JOHN SMITH" {
			t.Errorf("expected display name JOHN SMITH, got %q", dir.Name)
		}
		if dir.CompanyCount != 1 {
			t.Errorf("expected company count 1, got %d", dir.CompanyCount)
		}
		if len(n.Connections) != 1 {
			t.Fatalf("expected 1 connection, got %d", len(n.Connections))
		}
		if n.Connections[0].DirectorID != key {
			t.Errorf("connection director id mismatch: %q", n.Connections[0].DirectorID)
		}
	})

	t.Run("appends appointments to existing identity", func(t *testing.T) {
		t.Parallel()

		n := NewNetwork([]string{"AA111111"}, 1)
		key := DirectorKey("JOHN SMITH", "2020-01-15")

		n.AddConnection(key, "JOHN SMITH", Appointment{CompanyNumber: "AA111111", Role: "director", AppointedOn: "2020-01-15"}, 0)
		n.AddConnection(key, "JOHN SMITH", Appointment{CompanyNumber: "BB222222", Role: "director", AppointedOn: "2020-01-15"}, 1)

		if got := n.Directors[key].CompanyCount; got != 2 {
			t.Errorf("expected company count 2, got %d", got)
		}
		if len(n.DirectorOrder) != 1 {
			t.Errorf("expected a single director key, got %d", len(n.DirectorOrder))
		}
	})

	t.Run("duplicate connections are kept", func(t *testing.T) {
		t.Parallel()

		n := NewNetwork([]string{"AA111111"}, 2)
		key := DirectorKey("JANE DOE", "2019-06-01")
		appt := Appointment{CompanyNumber: "AA111111", Role: "director", AppointedOn: "2019-06-01"}

		n.AddConnection(key, "JANE DOE", appt, 0)
		n.AddConnection(key, "JANE DOE", appt, 1)

		if len(n.Connections) != 2 {
			t.Errorf("expected duplicate connections preserved, got %d", len(n.Connections))
		}
	})
}

// TestNetworkFinalize tests statistics computation.
func TestNetworkFinalize(t *testing.T) {
	t.Parallel()

	n := NewNetwork([]string{"AA111111"}, 3)
	n.AddCompany(&Company{CompanyNumber: "AA111111", Depth: 0})
	n.AddCompany(&Company{CompanyNumber: "BB222222", Depth: 1})
	n.AddCompany(&Company{CompanyNumber: "CC333333", Depth: 2})

	key := DirectorKey("JOHN SMITH", "2020-01-15")
	n.AddConnection(key, "JOHN SMITH", Appointment{CompanyNumber: "AA111111", AppointedOn: "2020-01-15"}, 0)
	n.AddConnection(key, "JOHN SMITH", Appointment{CompanyNumber: "BB222222", AppointedOn: "2020-01-15"}, 1)

	n.Finalize()

	stats := n.Statistics
	if stats.TotalCompanies != 3 {
		t.Errorf("expected 3 companies, got %d", stats.TotalCompanies)
	}
	if stats.TotalDirectors != 1 {
		t.Errorf("expected 1 director, got %d", stats.TotalDirectors)
	}
	if stats.TotalConnections != 2 {
		t.Errorf("expected 2 connections, got %d", stats.TotalConnections)
	}
	if stats.DepthReached != 2 {
		t.Errorf("expected depth reached 2, got %d", stats.DepthReached)
	}
	if n.ScannedAt.IsZero() {
		t.Error("expected ScannedAt to be stamped")
	}
}

// TestNetworkJSONRoundTrip verifies a snapshot survives serialization,
// including the insertion-order side slices the analysis layer depends on.
func TestNetworkJSONRoundTrip(t *testing.T) {
	t.Parallel()

	n := NewNetwork([]string{"AA111111"}, 1)
	n.AddCompany(&Company{CompanyNumber: "AA111111", CompanyName: "Alpha Ltd", Depth: 0})
	key := DirectorKey("JOHN SMITH", "2020-01-15")
	n.AddConnection(key, "JOHN SMITH", Appointment{
		CompanyNumber: "AA111111",
		CompanyName:   "Alpha Ltd",
		Role:          "director",
		AppointedOn:   "2020-01-15",
		DateOfBirth:   &DateOfBirth{Month: 4, Year: 1970},
	}, 0)
	n.Finalize()

	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("failed to marshal network: %v", err)
	}

	var restored Network
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("failed to unmarshal network: %v", err)
	}

	if len(restored.CompanyOrder) != 1 || restored.CompanyOrder[0] != "AA111111" {
		t.Errorf("company order not preserved: %v", restored.CompanyOrder)
	}
	if len(restored.DirectorOrder) != 1 || restored.DirectorOrder[0] != key {
		t.Errorf("director order not preserved: %v", restored.DirectorOrder)
	}
	if restored.Statistics.TotalConnections != 1 {
		t.Errorf("statistics not preserved: %+v", restored.Statistics)
	}
	got := restored.Directors[key].Appointments[0].DateOfBirth
	if got == nil || got.Year != 1970 {
		t.Errorf("date of birth not preserved: %+v", got)
	}
}
