package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// Helper to create a test lead
func createTestLead(t *testing.T, testDB *TestDB, name string, status LeadStatus) Lead {
	t.Helper()
	lead, err := testDB.Store.CreateLead(context.Background(), CreateLeadParams{
		Name:          name,
		PhoneNumber:   fmt.Sprintf("+54911%s", uuid.New().String()[:8]),
		Status:        status,
		Source:        LeadSourceWebsite,
		InterestLevel: 3,
		Priority:      LeadPriorityMedium,
	})
	if err != nil {
		t.Fatalf("failed to create test lead: %v", err)
	}
	return lead
}

func TestStore_CreateLead(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.Truncate(t)

	ctx := context.Background()

	email := "juan@example.com"
	company := "Constructora Sur"
	params := CreateLeadParams{
		Name:          "Juan Pérez",
		PhoneNumber:   "+541112345678",
		Email:         &email,
		Company:       &company,
		Status:        LeadStatusNew,
		Source:        LeadSourceWebsite,
		InterestLevel: 4,
		Priority:      LeadPriorityHigh,
	}

	lead, err := testDB.Store.CreateLead(ctx, params)
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}
	if lead.ID == uuid.Nil {
		t.Error("expected lead ID to be set")
	}
	if lead.PhoneNumber != params.PhoneNumber {
		t.Errorf("PhoneNumber = %v, want %v", lead.PhoneNumber, params.PhoneNumber)
	}
	if lead.Status != LeadStatusNew {
		t.Errorf("Status = %v, want new", lead.Status)
	}
	if lead.InterestLevel != 4 {
		t.Errorf("InterestLevel = %v, want 4", lead.InterestLevel)
	}

	// Phone number is unique: a second insert with the same phone must fail
	_, err = testDB.Store.CreateLead(ctx, params)
	if err == nil {
		t.Error("expected duplicate phone insert to fail")
	}
}

func TestStore_GetLeadByPhone(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.Truncate(t)

	ctx := context.Background()
	created := createTestLead(t, testDB, "María López", LeadStatusNew)

	lead, err := testDB.Store.GetLeadByPhone(ctx, created.PhoneNumber)
	if err != nil {
		t.Fatalf("GetLeadByPhone() error = %v", err)
	}
	if lead.ID != created.ID {
		t.Errorf("ID = %v, want %v", lead.ID, created.ID)
	}

	_, err = testDB.Store.GetLeadByPhone(ctx, "+540000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_GetLeadsDueForFollowUp(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.Truncate(t)

	ctx := context.Background()
	now := time.Now().UTC()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	// Due: contacted with past follow-up
	due := createTestLead(t, testDB, "Due Lead", LeadStatusContacted)
	if _, err := testDB.Store.UpdateLead(ctx, due.ID, UpdateLeadParams{NextFollowUp: &past}); err != nil {
		t.Fatalf("failed to set follow-up: %v", err)
	}

	// Not due: future follow-up
	notDue := createTestLead(t, testDB, "Future Lead", LeadStatusContacted)
	if _, err := testDB.Store.UpdateLead(ctx, notDue.ID, UpdateLeadParams{NextFollowUp: &future}); err != nil {
		t.Fatalf("failed to set follow-up: %v", err)
	}

	// Not eligible: converted status even with past follow-up
	converted := createTestLead(t, testDB, "Converted Lead", LeadStatusConverted)
	if _, err := testDB.Store.UpdateLead(ctx, converted.ID, UpdateLeadParams{NextFollowUp: &past}); err != nil {
		t.Fatalf("failed to set follow-up: %v", err)
	}

	leads, err := testDB.Store.GetLeadsDueForFollowUp(ctx, now)
	if err != nil {
		t.Fatalf("GetLeadsDueForFollowUp() error = %v", err)
	}
	if len(leads) != 1 {
		t.Fatalf("expected 1 due lead, got %d", len(leads))
	}
	if leads[0].ID != due.ID {
		t.Errorf("due lead ID = %v, want %v", leads[0].ID, due.ID)
	}
}

func TestStore_UpdateLeadFollowUpState(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Close()
	testDB.Truncate(t)

	ctx := context.Background()
	lead := createTestLead(t, testDB, "Follow Lead", LeadStatusNew)

	now := time.Now().UTC().Truncate(time.Second)
	next := now.Add(7 * 24 * time.Hour)
	if err := testDB.Store.UpdateLeadFollowUpState(ctx, lead.ID, LeadStatusContacted, now, next); err != nil {
		t.Fatalf("UpdateLeadFollowUpState() error = %v", err)
	}

	updated, err := testDB.Store.GetLeadByID(ctx, lead.ID)
	if err != nil {
		t.Fatalf("GetLeadByID() error = %v", err)
	}
	if updated.Status != LeadStatusContacted {
		t.Errorf("Status = %v, want contacted", updated.Status)
	}
	if updated.NextFollowUp == nil || !updated.NextFollowUp.Equal(next) {
		t.Errorf("NextFollowUp = %v, want %v", updated.NextFollowUp, next)
	}

	err = testDB.Store.UpdateLeadFollowUpState(ctx, uuid.New(), LeadStatusContacted, now, next)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown lead, got %v", err)
	}
}
