package processor

import (
	"context"
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
	campaigns map[uuid.UUID]store.Campaign
	templates map[uuid.UUID]store.MessageTemplate
	targets   []store.Lead
	stats     store.CampaignResultStats
	responses int

	due      []store.Campaign
	results  []store.CreateCampaignResultParams
	executed []uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		campaigns: map[uuid.UUID]store.Campaign{},
		templates: map[uuid.UUID]store.MessageTemplate{},
	}
}

func (f *fakeStore) CreateCampaign(ctx context.Context, params store.CreateCampaignParams) (store.Campaign, error) {
	campaign := store.Campaign{ID: uuid.New(), Name: params.Name, TemplateID: params.TemplateID, IsActive: params.IsActive}
	f.campaigns[campaign.ID] = campaign
	return campaign, nil
}

func (f *fakeStore) GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error) {
	campaign, ok := f.campaigns[campaignID]
	if !ok {
		return store.Campaign{}, store.ErrNotFound
	}
	return campaign, nil
}

func (f *fakeStore) ListCampaigns(ctx context.Context) ([]store.Campaign, error) {
	var all []store.Campaign
	for _, campaign := range f.campaigns {
		all = append(all, campaign)
	}
	return all, nil
}

func (f *fakeStore) UpdateCampaign(ctx context.Context, campaignID uuid.UUID, params store.UpdateCampaignParams) (store.Campaign, error) {
	return f.GetCampaignByID(ctx, campaignID)
}

func (f *fakeStore) DeleteCampaign(ctx context.Context, campaignID uuid.UUID) error {
	delete(f.campaigns, campaignID)
	return nil
}

func (f *fakeStore) GetCampaignsDueForExecution(ctx context.Context, now time.Time) ([]store.Campaign, error) {
	return f.due, nil
}

func (f *fakeStore) MarkCampaignExecuted(ctx context.Context, campaignID uuid.UUID, executedAt time.Time) error {
	f.executed = append(f.executed, campaignID)
	return nil
}

func (f *fakeStore) GetTemplateByID(ctx context.Context, templateID uuid.UUID) (store.MessageTemplate, error) {
	template, ok := f.templates[templateID]
	if !ok {
		return store.MessageTemplate{}, store.ErrNotFound
	}
	return template, nil
}

func (f *fakeStore) GetLeadsByCampaignTarget(ctx context.Context, targetStatus *store.LeadStatus, targetSource *store.LeadSource) ([]store.Lead, error) {
	return f.targets, nil
}

func (f *fakeStore) CreateCampaignResult(ctx context.Context, params store.CreateCampaignResultParams) (store.CampaignResult, error) {
	f.results = append(f.results, params)
	return store.CampaignResult{ID: uuid.New(), CampaignID: params.CampaignID, LeadID: params.LeadID}, nil
}

func (f *fakeStore) GetCampaignResultStats(ctx context.Context, campaignID uuid.UUID) (store.CampaignResultStats, error) {
	return f.stats, nil
}

func (f *fakeStore) CountCampaignResponses(ctx context.Context, campaignID uuid.UUID) (int, error) {
	return f.responses, nil
}

type fakeDispatcher struct {
	fail  bool
	calls []string
}

func (f *fakeDispatcher) Send(ctx context.Context, lead store.Lead, content string, scheduledAt *time.Time) messaging.SendResult {
	f.calls = append(f.calls, content)
	if f.fail {
		return messaging.SendResult{ErrorKind: messaging.ErrorKindSendFailed}
	}
	return messaging.SendResult{Success: true, Message: store.Message{ID: uuid.New(), LeadID: lead.ID}}
}

func seedCampaign(fs *fakeStore, active bool) store.Campaign {
	template := store.MessageTemplate{ID: uuid.New(), Content: "Hola {name}, tenemos novedades"}
	fs.templates[template.ID] = template
	campaign := store.Campaign{ID: uuid.New(), Name: "Promo otoño", TemplateID: template.ID, IsActive: active}
	fs.campaigns[campaign.ID] = campaign
	return campaign
}

func targetLeads(names ...string) []store.Lead {
	leads := make([]store.Lead, 0, len(names))
	for _, name := range names {
		leads = append(leads, store.Lead{ID: uuid.New(), Name: name, PhoneNumber: "+541112345678"})
	}
	return leads
}

func TestExecuteCampaign(t *testing.T) {
	logger := observability.NewLogger()

	t.Run("records one result per successful send", func(t *testing.T) {
		fs := newFakeStore()
		campaign := seedCampaign(fs, true)
		fs.targets = targetLeads("Ana", "Bruno", "Clara")
		fd := &fakeDispatcher{}
		p := New(fs, fd, logger)

		summary, err := p.ExecuteCampaign(context.Background(), campaign.ID)
		require.NoError(t, err)
		assert.True(t, summary.Executed)
		assert.Equal(t, 3, summary.TotalLeads)
		assert.Equal(t, 3, summary.Sent)
		assert.Equal(t, 0, summary.Failed)
		require.Len(t, fs.results, 3)
		assert.Equal(t, "Hola Ana, tenemos novedades", fd.calls[0])
	})

	t.Run("total channel outage records no results", func(t *testing.T) {
		fs := newFakeStore()
		campaign := seedCampaign(fs, true)
		fs.targets = targetLeads("Ana", "Bruno", "Clara")
		fd := &fakeDispatcher{fail: true}
		p := New(fs, fd, logger)

		summary, err := p.ExecuteCampaign(context.Background(), campaign.ID)
		require.NoError(t, err)
		assert.True(t, summary.Executed)
		assert.Equal(t, 3, summary.Failed)
		assert.Equal(t, 0, summary.Sent)
		assert.Empty(t, fs.results)
	})

	t.Run("missing campaign is a quiet no-op", func(t *testing.T) {
		fs := newFakeStore()
		fd := &fakeDispatcher{}
		p := New(fs, fd, logger)

		summary, err := p.ExecuteCampaign(context.Background(), uuid.New())
		require.NoError(t, err)
		assert.False(t, summary.Executed)
		assert.Empty(t, fd.calls)
	})

	t.Run("inactive campaign is skipped", func(t *testing.T) {
		fs := newFakeStore()
		campaign := seedCampaign(fs, false)
		fs.targets = targetLeads("Ana")
		fd := &fakeDispatcher{}
		p := New(fs, fd, logger)

		summary, err := p.ExecuteCampaign(context.Background(), campaign.ID)
		require.NoError(t, err)
		assert.False(t, summary.Executed)
		assert.Empty(t, fd.calls)
	})
}

func TestRunScheduledCampaigns(t *testing.T) {
	fs := newFakeStore()
	campaign := seedCampaign(fs, true)
	fs.targets = targetLeads("Ana")
	fs.due = []store.Campaign{campaign}
	fd := &fakeDispatcher{}
	p := New(fs, fd, observability.NewLogger())

	require.NoError(t, p.RunScheduledCampaigns(context.Background()))

	assert.Equal(t, []uuid.UUID{campaign.ID}, fs.executed)
	assert.Len(t, fd.calls, 1)
	assert.Len(t, fs.results, 1)
}

func TestAnalyzeCampaignPerformance(t *testing.T) {
	logger := observability.NewLogger()

	t.Run("rates and weighted score", func(t *testing.T) {
		fs := newFakeStore()
		campaign := seedCampaign(fs, true)
		fs.stats = store.CampaignResultStats{Total: 10, Sent: 10, Delivered: 9, Read: 6, Failed: 0}
		fs.responses = 2
		p := New(fs, &fakeDispatcher{}, logger)

		report, err := p.AnalyzeCampaignPerformance(context.Background(), campaign.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, report.TotalSent)
		assert.Equal(t, 90.0, report.DeliveryRate)
		assert.Equal(t, 60.0, report.ReadRate)
		assert.Equal(t, 20.0, report.ResponseRate)
		// 90*0.3 + 60*0.4 + 20*0.3
		assert.Equal(t, 57.0, report.PerformanceScore)
		assert.Equal(t, []string{"Revisar segmentación", "Mejorar personalización"}, report.Optimizations)
		assert.Empty(t, report.Recommendations)
	})

	t.Run("poor campaign collects every recommendation", func(t *testing.T) {
		fs := newFakeStore()
		campaign := seedCampaign(fs, true)
		fs.stats = store.CampaignResultStats{Total: 10, Sent: 10, Delivered: 5, Read: 2}
		fs.responses = 0
		p := New(fs, &fakeDispatcher{}, logger)

		report, err := p.AnalyzeCampaignPerformance(context.Background(), campaign.ID)
		require.NoError(t, err)
		assert.Len(t, report.Recommendations, 3)
		assert.Equal(t, []string{"Rediseñar campaña completa", "Revisar base de datos de leads"}, report.Optimizations)
	})

	t.Run("no results yields ErrNoResults", func(t *testing.T) {
		fs := newFakeStore()
		campaign := seedCampaign(fs, true)
		p := New(fs, &fakeDispatcher{}, logger)

		_, err := p.AnalyzeCampaignPerformance(context.Background(), campaign.ID)
		assert.ErrorIs(t, err, ErrNoResults)
	})
}
