package logstore

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/rajindersingh041/log-alerts/internal/database"
	"github.com/rajindersingh041/log-alerts/internal/models"
)

var pgColumns = []string{"createdAt", "level", "source", "message", "payload"}

func alertFilter(since time.Time, sources ...string) Filter {
	return Filter{
		Since:      since,
		Severities: models.AlertSeverities,
		Sources:    sources,
		Limit:      50,
	}
}

func TestPostgresFind(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	store := NewPostgres(mock, "IntegrationLog")

	since := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	newer := since.Add(20 * time.Minute)
	older := since.Add(5 * time.Minute)

	rows := pgxmock.NewRows(pgColumns).
		AddRow(newer, "ERROR", "billing", "charge failed", []byte(`{"orderId":"123"}`)).
		AddRow(older, "warn", "stripe", "webhook retry", []byte(nil))

	mock.ExpectQuery(regexp.QuoteMeta(database.PostgresRecentAlerts("IntegrationLog", false, false))).
		WithArgs(since, []string{"warn", "error"}, 50).
		WillReturnRows(rows)
	mock.ExpectClose()

	entries, err := store.Find(context.Background(), alertFilter(since))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	store.Close()

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Severity != models.SeverityError || entries[0].Source != "billing" {
		t.Errorf("entries[0] = %+v", entries[0])
	}
	if !entries[0].Payload.Present() {
		t.Error("entries[0] payload should be present")
	}
	if entries[1].Severity != models.SeverityWarn || entries[1].Payload.Present() {
		t.Errorf("entries[1] = %+v", entries[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresFindWithSources(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()
	store := NewPostgres(mock, "IntegrationLog")

	since := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(database.PostgresRecentAlerts("IntegrationLog", true, false))).
		WithArgs(since, []string{"warn", "error"}, []string{"billing"}, 50).
		WillReturnRows(pgxmock.NewRows(pgColumns))

	entries, err := store.Find(context.Background(), alertFilter(since, "billing"))
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresFindErrors(t *testing.T) {
	since := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	boom := errors.New("relation \"IntegrationLog\" does not exist")

	tests := []struct {
		name   string
		expect func(mock pgxmock.PgxPoolIface)
	}{
		{
			name: "query rejected",
			expect: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery("SELECT").
					WithArgs(since, []string{"warn", "error"}, 50).
					WillReturnError(boom)
			},
		},
		{
			name: "row error mid iteration",
			expect: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(pgColumns).
					AddRow(since, "error", "billing", "first", []byte(nil)).
					AddRow(since, "error", "billing", "second", []byte(nil)).
					RowError(1, boom)
				mock.ExpectQuery("SELECT").
					WithArgs(since, []string{"warn", "error"}, 50).
					WillReturnRows(rows)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("pgxmock.NewPool: %v", err)
			}
			defer mock.Close()
			tt.expect(mock)

			entries, err := NewPostgres(mock, "IntegrationLog").Find(context.Background(), alertFilter(since))
			if !errors.Is(err, boom) {
				t.Fatalf("Find() error = %v, want %v", err, boom)
			}
			if entries != nil {
				t.Errorf("partial results returned: %+v", entries)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unmet expectations: %v", err)
			}
		})
	}
}

func TestPostgresFindWithTenant(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()
	store := NewPostgres(mock, "IntegrationLog")

	since := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(database.PostgresRecentAlerts("IntegrationLog", true, true))).
		WithArgs(since, []string{"warn", "error"}, []string{"stripe"}, "tenant_lasreinas", 50).
		WillReturnRows(pgxmock.NewRows(pgColumns).
			AddRow(since.Add(time.Minute), "error", "stripe", "payout failed", []byte(nil)))

	f := alertFilter(since, "stripe")
	f.TenantID = "tenant_lasreinas"
	entries, err := store.Find(context.Background(), f)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(entries) != 1 || entries[0].Message != "payout failed" {
		t.Errorf("entries = %+v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
