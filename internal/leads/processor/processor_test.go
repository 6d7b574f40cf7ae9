package processor

import (
	"context"
	"strings"
	"testing"
	"time"

	"nexa-crm/internal/messaging"
	"nexa-crm/internal/observability"
	"nexa-crm/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	leadsByPhone map[string]store.Lead
	leadsByID    map[uuid.UUID]store.Lead
	templates    map[store.TemplateCategory]store.MessageTemplate
	templateByID map[uuid.UUID]store.MessageTemplate

	statusCounts []store.StatusCount
	sourceCounts []store.SourceCount
	totalLeads   int
	converted    int

	created      []store.CreateLeadParams
	interactions []store.CreateInteractionParams
	deleted      []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leadsByPhone: map[string]store.Lead{},
		leadsByID:    map[uuid.UUID]store.Lead{},
		templates:    map[store.TemplateCategory]store.MessageTemplate{},
		templateByID: map[uuid.UUID]store.MessageTemplate{},
	}
}

func (f *fakeStore) addLead(lead store.Lead) {
	f.leadsByPhone[lead.PhoneNumber] = lead
	f.leadsByID[lead.ID] = lead
}

func (f *fakeStore) CreateLead(ctx context.Context, params store.CreateLeadParams) (store.Lead, error) {
	f.created = append(f.created, params)
	lead := store.Lead{
		ID:          uuid.New(),
		Name:        params.Name,
		PhoneNumber: params.PhoneNumber,
		Email:       params.Email,
		Company:     params.Company,
		Status:      params.Status,
		Source:      params.Source,
	}
	f.addLead(lead)
	return lead, nil
}

func (f *fakeStore) GetLeadByID(ctx context.Context, leadID uuid.UUID) (store.Lead, error) {
	lead, ok := f.leadsByID[leadID]
	if !ok {
		return store.Lead{}, store.ErrNotFound
	}
	return lead, nil
}

func (f *fakeStore) GetLeadByPhone(ctx context.Context, phoneNumber string) (store.Lead, error) {
	lead, ok := f.leadsByPhone[phoneNumber]
	if !ok {
		return store.Lead{}, store.ErrNotFound
	}
	return lead, nil
}

func (f *fakeStore) ListLeads(ctx context.Context, filter store.ListLeadsFilter) ([]store.Lead, error) {
	var all []store.Lead
	for _, lead := range f.leadsByID {
		all = append(all, lead)
	}
	return all, nil
}

func (f *fakeStore) UpdateLead(ctx context.Context, leadID uuid.UUID, params store.UpdateLeadParams) (store.Lead, error) {
	return f.GetLeadByID(ctx, leadID)
}

func (f *fakeStore) UpdateLeadStatus(ctx context.Context, leadID uuid.UUID, status store.LeadStatus, notes *string) (store.Lead, error) {
	lead, err := f.GetLeadByID(ctx, leadID)
	if err != nil {
		return store.Lead{}, err
	}
	lead.Status = status
	f.addLead(lead)
	return lead, nil
}

func (f *fakeStore) DeleteLead(ctx context.Context, leadID uuid.UUID) error {
	if _, ok := f.leadsByID[leadID]; !ok {
		return store.ErrNotFound
	}
	f.deleted = append(f.deleted, leadID)
	return nil
}

func (f *fakeStore) CreateInteraction(ctx context.Context, params store.CreateInteractionParams) (store.Interaction, error) {
	f.interactions = append(f.interactions, params)
	return store.Interaction{ID: uuid.New(), LeadID: params.LeadID}, nil
}

func (f *fakeStore) ListInteractionsByLead(ctx context.Context, leadID uuid.UUID) ([]store.Interaction, error) {
	return nil, nil
}

func (f *fakeStore) ListMessagesByLead(ctx context.Context, leadID uuid.UUID) ([]store.Message, error) {
	return nil, nil
}

func (f *fakeStore) GetActiveTemplateByCategory(ctx context.Context, category store.TemplateCategory) (store.MessageTemplate, error) {
	template, ok := f.templates[category]
	if !ok {
		return store.MessageTemplate{}, store.ErrNotFound
	}
	return template, nil
}

func (f *fakeStore) GetTemplateByID(ctx context.Context, templateID uuid.UUID) (store.MessageTemplate, error) {
	template, ok := f.templateByID[templateID]
	if !ok {
		return store.MessageTemplate{}, store.ErrNotFound
	}
	return template, nil
}

func (f *fakeStore) GetLeadStatusDistribution(ctx context.Context) ([]store.StatusCount, error) {
	return f.statusCounts, nil
}

func (f *fakeStore) GetLeadSourceDistribution(ctx context.Context) ([]store.SourceCount, error) {
	return f.sourceCounts, nil
}

func (f *fakeStore) CountLeads(ctx context.Context) (int, error) {
	return f.totalLeads, nil
}

func (f *fakeStore) CountLeadsByStatus(ctx context.Context, status store.LeadStatus) (int, error) {
	return f.converted, nil
}

type dispatch struct {
	lead        store.Lead
	content     string
	scheduledAt *time.Time
}

type fakeDispatcher struct {
	calls []dispatch
}

func (f *fakeDispatcher) Send(ctx context.Context, lead store.Lead, content string, scheduledAt *time.Time) messaging.SendResult {
	f.calls = append(f.calls, dispatch{lead, content, scheduledAt})
	return messaging.SendResult{Success: true, Message: store.Message{ID: uuid.New(), LeadID: lead.ID}}
}

func newTestProcessor() (*LeadProcessor, *fakeStore, *fakeDispatcher) {
	fs := newFakeStore()
	fd := &fakeDispatcher{}
	return New(fs, fd, "54", observability.NewLogger()), fs, fd
}

func TestCreateLead(t *testing.T) {
	t.Run("website lead is created and welcomed", func(t *testing.T) {
		p, fs, fd := newTestProcessor()

		lead, created, err := p.CreateLead(context.Background(), store.CreateLeadParams{
			Name:        "Ana",
			PhoneNumber: "011 1234 5678",
			Status:      store.LeadStatusNew,
			Source:      store.LeadSourceWebsite,
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "+541112345678", lead.PhoneNumber)
		require.Len(t, fs.created, 1)
		require.Len(t, fd.calls, 1)
		assert.Contains(t, fd.calls[0].content, "Gracias por tu interés en Nexa Constructora")
	})

	t.Run("existing phone returns existing lead without a welcome", func(t *testing.T) {
		p, fs, fd := newTestProcessor()
		existing := store.Lead{ID: uuid.New(), Name: "Ana", PhoneNumber: "+541112345678", Source: store.LeadSourceWebsite}
		fs.addLead(existing)

		lead, created, err := p.CreateLead(context.Background(), store.CreateLeadParams{
			Name:        "Otra Ana",
			PhoneNumber: "01112345678",
			Source:      store.LeadSourceWebsite,
		})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, existing.ID, lead.ID)
		assert.Empty(t, fs.created)
		assert.Empty(t, fd.calls)
	})

	t.Run("non-website source skips the welcome", func(t *testing.T) {
		p, _, fd := newTestProcessor()

		_, created, err := p.CreateLead(context.Background(), store.CreateLeadParams{
			Name:        "Bruno",
			PhoneNumber: "1112345679",
			Source:      store.LeadSourceReferral,
		})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Empty(t, fd.calls)
	})

	t.Run("active welcome template overrides the default", func(t *testing.T) {
		p, fs, fd := newTestProcessor()
		fs.templates[store.TemplateCategoryWelcome] = store.MessageTemplate{Content: "Bienvenido {name}!"}

		_, _, err := p.CreateLead(context.Background(), store.CreateLeadParams{
			Name:        "Ana",
			PhoneNumber: "1112345678",
			Source:      store.LeadSourceWebsite,
		})
		require.NoError(t, err)
		require.Len(t, fd.calls, 1)
		assert.Equal(t, "Bienvenido Ana!", fd.calls[0].content)
	})
}

func TestUpdateStatus(t *testing.T) {
	p, fs, _ := newTestProcessor()
	lead := store.Lead{ID: uuid.New(), Name: "Ana", PhoneNumber: "+541112345678", Status: store.LeadStatusNew}
	fs.addLead(lead)

	updated, err := p.UpdateStatus(context.Background(), lead.ID, store.LeadStatusInterested, nil)
	require.NoError(t, err)
	assert.Equal(t, store.LeadStatusInterested, updated.Status)

	require.Len(t, fs.interactions, 1)
	assert.Equal(t, "status_change", fs.interactions[0].InteractionType)
	require.NotNil(t, fs.interactions[0].Outcome)
	assert.Equal(t, "interested", *fs.interactions[0].Outcome)
}

func TestSendMessage(t *testing.T) {
	t.Run("template is rendered before dispatch", func(t *testing.T) {
		p, fs, fd := newTestProcessor()
		lead := store.Lead{ID: uuid.New(), Name: "Ana", PhoneNumber: "+541112345678"}
		fs.addLead(lead)
		template := store.MessageTemplate{ID: uuid.New(), Content: "Hola {name}, novedades de tu obra"}
		fs.templateByID[template.ID] = template

		result, err := p.SendMessage(context.Background(), SendMessageParams{
			LeadID:     lead.ID,
			TemplateID: &template.ID,
		})
		require.NoError(t, err)
		assert.True(t, result.Success)
		require.Len(t, fd.calls, 1)
		assert.Equal(t, "Hola Ana, novedades de tu obra", fd.calls[0].content)
	})

	t.Run("scheduled time is passed through", func(t *testing.T) {
		p, fs, fd := newTestProcessor()
		lead := store.Lead{ID: uuid.New(), Name: "Ana", PhoneNumber: "+541112345678"}
		fs.addLead(lead)

		at := time.Now().UTC().Add(time.Hour)
		_, err := p.SendMessage(context.Background(), SendMessageParams{
			LeadID:      lead.ID,
			Content:     "recordatorio",
			ScheduledAt: &at,
		})
		require.NoError(t, err)
		require.Len(t, fd.calls, 1)
		require.NotNil(t, fd.calls[0].scheduledAt)
		assert.Equal(t, at, *fd.calls[0].scheduledAt)
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		p, fs, _ := newTestProcessor()
		lead := store.Lead{ID: uuid.New(), PhoneNumber: "+541112345678"}
		fs.addLead(lead)

		_, err := p.SendMessage(context.Background(), SendMessageParams{LeadID: lead.ID})
		assert.Error(t, err)
	})

	t.Run("unknown lead is rejected", func(t *testing.T) {
		p, _, _ := newTestProcessor()
		_, err := p.SendMessage(context.Background(), SendMessageParams{LeadID: uuid.New(), Content: "hola"})
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestImportLeadsFromCSV(t *testing.T) {
	t.Run("imports new rows, skips blanks and duplicates", func(t *testing.T) {
		p, fs, fd := newTestProcessor()
		fs.addLead(store.Lead{ID: uuid.New(), PhoneNumber: "+541112345678"})

		csvData := strings.Join([]string{
			"phone_number,name,email,company,notes",
			"011 2345 6789,Bruno,bruno@acme.com,Acme,Obra nueva",
			",Sin Telefono,,,",
			"01112345678,Ana Duplicada,,,",
		}, "\n")

		result, err := p.ImportLeadsFromCSV(context.Background(), strings.NewReader(csvData))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
		assert.Equal(t, 2, result.Skipped)

		require.Len(t, fs.created, 1)
		assert.Equal(t, "+541123456789", fs.created[0].PhoneNumber)
		assert.Equal(t, "Bruno", fs.created[0].Name)
		// Imports never trigger welcome sends
		assert.Empty(t, fd.calls)
	})

	t.Run("missing phone_number column fails fast", func(t *testing.T) {
		p, _, _ := newTestProcessor()
		_, err := p.ImportLeadsFromCSV(context.Background(), strings.NewReader("name,email\nAna,a@b.com"))
		assert.Error(t, err)
	})
}

func TestGetAnalytics(t *testing.T) {
	p, fs, _ := newTestProcessor()
	fs.totalLeads = 8
	fs.converted = 2
	fs.statusCounts = []store.StatusCount{{Status: store.LeadStatusNew, Count: 6}, {Status: store.LeadStatusConverted, Count: 2}}
	fs.sourceCounts = []store.SourceCount{{Source: store.LeadSourceWebsite, Count: 8}}

	analytics, err := p.GetAnalytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 8, analytics.TotalLeads)
	assert.Equal(t, 2, analytics.Conversions)
	assert.Equal(t, 25.0, analytics.ConversionRate)
	assert.Equal(t, 6, analytics.StatusDistribution["new"])
	assert.Equal(t, 8, analytics.SourceDistribution["website"])
}
