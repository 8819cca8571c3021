package applicationsrv

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/Abraxas-365/bolsa/pkg/errx"
	"github.com/Abraxas-365/bolsa/pkg/kernel"
	"github.com/Abraxas-365/bolsa/recruitment/application"
	"github.com/Abraxas-365/bolsa/recruitment/candidate"
	"github.com/Abraxas-365/bolsa/recruitment/notification"
	"github.com/Abraxas-365/bolsa/recruitment/offer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Fakes
// ============================================================================

type memApplications struct {
	apps    map[kernel.ApplicationID]application.Application
	history map[kernel.ApplicationID][]application.HistoryEntry
	// beforeSave simulates a concurrent writer
	beforeSave func(id kernel.ApplicationID)
}

func newMemApplications() *memApplications {
	return &memApplications{
		apps:    map[kernel.ApplicationID]application.Application{},
		history: map[kernel.ApplicationID][]application.HistoryEntry{},
	}
}

func (m *memApplications) Create(_ context.Context, app *application.Application, first application.HistoryEntry) error {
	for _, a := range m.apps {
		if a.OfferID == app.OfferID && a.CandidateID == app.CandidateID {
			return application.ErrAlreadyApplied()
		}
	}
	stored := *app
	stored.History = nil
	m.apps[app.ID] = stored
	m.history[app.ID] = []application.HistoryEntry{first}
	return nil
}

func (m *memApplications) GetByID(_ context.Context, id kernel.ApplicationID) (*application.Application, error) {
	a, ok := m.apps[id]
	if !ok {
		return nil, application.ErrApplicationNotFound()
	}
	return &a, nil
}

func (m *memApplications) ExistsByOfferAndCandidate(_ context.Context, offerID kernel.OfferID, candidateID kernel.CandidateID) (bool, error) {
	for _, a := range m.apps {
		if a.OfferID == offerID && a.CandidateID == candidateID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memApplications) SaveTransition(_ context.Context, app *application.Application, expected application.Status, entry application.HistoryEntry) error {
	if m.beforeSave != nil {
		m.beforeSave(app.ID)
	}
	stored := m.apps[app.ID]
	if stored.Status != expected {
		return application.ErrConcurrentConflict()
	}
	stored.Status = app.Status
	stored.Notes = app.Notes
	stored.UpdatedAt = app.UpdatedAt
	m.apps[app.ID] = stored
	m.history[app.ID] = append(m.history[app.ID], entry)
	return nil
}

func (m *memApplications) History(_ context.Context, id kernel.ApplicationID) ([]application.HistoryEntry, error) {
	return m.history[id], nil
}

func (m *memApplications) list(match func(application.Application) bool, opts kernel.PaginationOptions) *kernel.Paginated[application.Application] {
	var items []application.Application
	for _, a := range m.apps {
		if match(a) {
			items = append(items, a)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].AppliedAt.Before(items[j].AppliedAt) })
	return kernel.NewPaginated(items, opts, len(items))
}

func (m *memApplications) ListByOffer(_ context.Context, offerID kernel.OfferID, opts kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	return m.list(func(a application.Application) bool { return a.OfferID == offerID }, opts), nil
}

func (m *memApplications) ListByCandidate(_ context.Context, candidateID kernel.CandidateID, opts kernel.PaginationOptions) (*kernel.Paginated[application.Application], error) {
	return m.list(func(a application.Application) bool { return a.CandidateID == candidateID }, opts), nil
}

func (m *memApplications) Delete(_ context.Context, id kernel.ApplicationID) error {
	delete(m.apps, id)
	delete(m.history, id)
	return nil
}

type memCandidates map[kernel.CandidateID]candidate.Candidate

func (m memCandidates) GetByID(_ context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	c, ok := m[id]
	if !ok {
		return nil, candidate.ErrCandidateNotFound()
	}
	return &c, nil
}

func (m memCandidates) Upsert(_ context.Context, c *candidate.Candidate) error   { m[c.ID] = *c; return nil }
func (m memCandidates) UpdateCV(_ context.Context, c *candidate.Candidate) error { m[c.ID] = *c; return nil }

type memOffers map[kernel.OfferID]offer.Offer

func (m memOffers) Create(_ context.Context, o *offer.Offer) error { m[o.ID] = *o; return nil }
func (m memOffers) Update(_ context.Context, o *offer.Offer) error { m[o.ID] = *o; return nil }

func (m memOffers) GetByID(_ context.Context, id kernel.OfferID) (*offer.Offer, error) {
	o, ok := m[id]
	if !ok {
		return nil, offer.ErrOfferNotFound()
	}
	return &o, nil
}

func (m memOffers) ListPublished(context.Context, kernel.PaginationOptions) (*kernel.Paginated[offer.Offer], error) {
	return nil, nil
}

func (m memOffers) ListByCompany(context.Context, kernel.CompanyID, kernel.PaginationOptions) (*kernel.Paginated[offer.Offer], error) {
	return nil, nil
}

func (m memOffers) Publish(_ context.Context, o *offer.Offer, _ func(int) error) error { m[o.ID] = *o; return nil }

type recordingDispatcher struct {
	messages []notification.Message
	err      error
}

func (d *recordingDispatcher) Notify(_ context.Context, msg notification.Message) error {
	d.messages = append(d.messages, msg)
	return d.err
}

type recordingCleaner struct {
	purged []kernel.ApplicationID
	err    error
}

func (c *recordingCleaner) PurgeApplication(_ context.Context, id kernel.ApplicationID) error {
	c.purged = append(c.purged, id)
	return c.err
}

// ============================================================================
// Fixtures
// ============================================================================

const (
	companyID   = kernel.CompanyID("comp-1")
	otherCo     = kernel.CompanyID("comp-2")
	candidateID = kernel.CandidateID("cand-1")
	offerID     = kernel.OfferID("offer-1")
	recruiterID = kernel.UserID("rec-1")
)

type fixture struct {
	svc        *ApplicationService
	apps       *memApplications
	candidates memCandidates
	offers     memOffers
	dispatcher *recordingDispatcher
	cleaner    *recordingCleaner
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cv := kernel.BucketURL("https://cdn.bolsa.pe/cvs/cand-1/cv.pdf")
	f := &fixture{
		apps: newMemApplications(),
		candidates: memCandidates{
			candidateID: {
				ID: candidateID, Email: "ana@mail.pe", FirstName: "Ana", LastName: "Quispe",
				Phone: "987654321", Location: "Lima", CVURL: &cv,
			},
			"cand-incomplete": {ID: "cand-incomplete", Email: "x@mail.pe", FirstName: "X"},
		},
		offers: memOffers{
			offerID:    {ID: offerID, CompanyID: companyID, Title: "Backend Go", Status: offer.StatusPublished},
			"draft-1":  {ID: "draft-1", CompanyID: companyID, Title: "Draft", Status: offer.StatusDraft},
			"closed-1": {ID: "closed-1", CompanyID: companyID, Title: "Closed", Status: offer.StatusClosed},
		},
		dispatcher: &recordingDispatcher{},
		cleaner:    &recordingCleaner{},
	}
	f.svc = NewApplicationService(f.apps, f.candidates, f.offers, f.dispatcher, f.cleaner)
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return f
}

func (f *fixture) apply(t *testing.T) *application.Application {
	t.Helper()
	app, err := f.svc.Apply(context.Background(), candidateID, offerID)
	require.NoError(t, err)
	return app
}

func recruiterReq(id kernel.ApplicationID, status application.Status) application.TransitionRequest {
	return application.TransitionRequest{
		ApplicationID: id,
		Status:        status,
		ActorID:       recruiterID,
		ActorRole:     kernel.RoleRecruiter,
		CompanyID:     companyID,
	}
}

// ============================================================================
// Apply
// ============================================================================

func TestApply(t *testing.T) {
	f := newFixture(t)
	app := f.apply(t)

	assert.Equal(t, application.StatusSolicitud, app.Status)
	assert.Equal(t, companyID, app.CompanyID)

	history := f.apps.history[app.ID]
	require.Len(t, history, 1)
	assert.Equal(t, application.Status(""), history[0].FromStatus)
	assert.Equal(t, application.StatusSolicitud, history[0].ToStatus)
	assert.Equal(t, kernel.UserID(candidateID), history[0].ChangedBy)
}

func TestApply_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Apply(ctx, "cand-incomplete", offerID)
	assert.True(t, errx.IsCode(err, application.CodeIncompleteProfile))

	_, err = f.svc.Apply(ctx, "ghost", offerID)
	assert.True(t, errx.IsCode(err, application.CodeIncompleteProfile))

	_, err = f.svc.Apply(ctx, candidateID, "missing")
	assert.True(t, errx.IsType(err, errx.TypeNotFound))

	_, err = f.svc.Apply(ctx, candidateID, "draft-1")
	assert.True(t, errx.IsType(err, errx.TypeAuthorization))

	_, err = f.svc.Apply(ctx, candidateID, "closed-1")
	assert.True(t, errx.IsCode(err, application.CodeOfferNotPublished))
	assert.Empty(t, f.apps.apps)

	f.apply(t)
	_, err = f.svc.Apply(ctx, candidateID, offerID)
	assert.True(t, errx.IsCode(err, application.CodeAlreadyApplied))
	assert.True(t, errx.IsType(err, errx.TypeConflict))
}

// ============================================================================
// ApplyTransition
// ============================================================================

func TestApplyTransition_FullPipeline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t)

	for _, next := range []application.Status{
		application.StatusEntrevista,
		application.StatusEvaluaciones,
		application.StatusContratacion,
	} {
		res, err := f.svc.ApplyTransition(ctx, recruiterReq(app.ID, next))
		require.NoError(t, err)
		assert.Equal(t, next, res.Status)
		assert.True(t, res.Changed)
	}

	history := f.apps.history[app.ID]
	require.Len(t, history, 4)
	assert.Equal(t, application.StatusEvaluaciones, history[3].FromStatus)
	assert.Equal(t, application.StatusContratacion, history[3].ToStatus)
	assert.Equal(t, recruiterID, history[3].ChangedBy)

	require.Len(t, f.dispatcher.messages, 3)
	last := f.dispatcher.messages[2]
	assert.Equal(t, notification.Message{
		To: "ana@mail.pe", Name: "Ana Quispe", OfferTitle: "Backend Go", NewStatus: "CONTRATACION",
	}, last)

	// hired is final
	_, err := f.svc.ApplyTransition(ctx, recruiterReq(app.ID, application.StatusRechazada))
	assert.True(t, errx.IsCode(err, application.CodeApplicationBlocked))
	assert.True(t, errx.IsType(err, errx.TypeConflict))
	assert.Len(t, f.apps.history[app.ID], 4)
}

func TestApplyTransition_BackwardsIsRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t)

	_, err := f.svc.ApplyTransition(ctx, recruiterReq(app.ID, application.StatusEvaluaciones))
	require.NoError(t, err)

	_, err = f.svc.ApplyTransition(ctx, recruiterReq(app.ID, application.StatusEntrevista))
	assert.True(t, errx.IsCode(err, application.CodeStatusNotAllowed))
	assert.Equal(t, application.StatusEvaluaciones, f.apps.apps[app.ID].Status)
	assert.Len(t, f.dispatcher.messages, 1)
}

func TestApplyTransition_RejectedIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t)

	req := recruiterReq(app.ID, application.StatusRechazada)
	req.Notes = "  perfil no calza  "
	res, err := f.svc.ApplyTransition(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, res.Notes)
	assert.Equal(t, "perfil no calza", *res.Notes)

	for _, next := range []application.Status{application.StatusSolicitud, application.StatusRechazada, application.StatusContratacion} {
		_, err := f.svc.ApplyTransition(ctx, recruiterReq(app.ID, next))
		assert.True(t, errx.IsCode(err, application.CodeApplicationBlocked), next)
	}
}

func TestApplyTransition_SameStatusKeepsNotesWithoutNotifying(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t)

	req := recruiterReq(app.ID, application.StatusSolicitud)
	req.Notes = "revisar CV"
	res, err := f.svc.ApplyTransition(ctx, req)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, "revisar CV", *f.apps.apps[app.ID].Notes)
	assert.Empty(t, f.dispatcher.messages)
}

func TestApplyTransition_Authorization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t)

	candidateReq := recruiterReq(app.ID, application.StatusEntrevista)
	candidateReq.ActorRole = kernel.RoleCandidate
	_, err := f.svc.ApplyTransition(ctx, candidateReq)
	assert.True(t, errx.IsType(err, errx.TypeAuthorization))

	foreign := recruiterReq(app.ID, application.StatusEntrevista)
	foreign.CompanyID = otherCo
	_, err = f.svc.ApplyTransition(ctx, foreign)
	assert.True(t, errx.IsCode(err, application.CodeInsufficientPermissions))

	admin := recruiterReq(app.ID, application.StatusEntrevista)
	admin.ActorRole = kernel.RoleAdmin
	admin.CompanyID = otherCo
	_, err = f.svc.ApplyTransition(ctx, admin)
	assert.NoError(t, err)

	_, err = f.svc.ApplyTransition(ctx, recruiterReq(app.ID, application.StatusRetirada))
	assert.True(t, errx.IsCode(err, application.CodeWithdrawReserved))

	_, err = f.svc.ApplyTransition(ctx, recruiterReq("missing", application.StatusEntrevista))
	assert.True(t, errx.IsType(err, errx.TypeNotFound))

	_, err = f.svc.ApplyTransition(ctx, recruiterReq("missing", application.StatusRetirada))
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}

func TestApplyTransition_InvalidStatus(t *testing.T) {
	f := newFixture(t)
	app := f.apply(t)

	_, err := f.svc.ApplyTransition(context.Background(), recruiterReq(app.ID, "APROBADA"))
	assert.True(t, errx.IsCode(err, application.CodeInvalidStatus))
}

func TestApplyTransition_LostRace(t *testing.T) {
	f := newFixture(t)
	app := f.apply(t)

	f.apps.beforeSave = func(id kernel.ApplicationID) {
		stored := f.apps.apps[id]
		stored.Status = application.StatusRechazada
		f.apps.apps[id] = stored
	}

	_, err := f.svc.ApplyTransition(context.Background(), recruiterReq(app.ID, application.StatusEntrevista))
	assert.True(t, errx.IsCode(err, application.CodeConcurrentConflict))
	assert.Equal(t, application.StatusRechazada, f.apps.apps[app.ID].Status)
	assert.Len(t, f.apps.history[app.ID], 1)
	assert.Empty(t, f.dispatcher.messages)
}

func TestApplyTransition_NotificationFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	f.dispatcher.err = errors.New("redis down")
	app := f.apply(t)

	res, err := f.svc.ApplyTransition(context.Background(), recruiterReq(app.ID, application.StatusEntrevista))
	require.NoError(t, err)
	assert.Equal(t, application.StatusEntrevista, res.Status)
	assert.Equal(t, application.StatusEntrevista, f.apps.apps[app.ID].Status)
}

// ============================================================================
// Withdraw
// ============================================================================

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t)

	_, err := f.svc.Withdraw(ctx, app.ID, "someone-else", "")
	assert.True(t, errx.IsCode(err, application.CodeNotOwner))

	res, err := f.svc.Withdraw(ctx, app.ID, candidateID, "acepté otra oferta")
	require.NoError(t, err)
	assert.Equal(t, application.StatusRetirada, res.Status)
	assert.Empty(t, f.dispatcher.messages)

	history := f.apps.history[app.ID]
	require.Len(t, history, 2)
	assert.Equal(t, kernel.UserID(candidateID), history[1].ChangedBy)

	_, err = f.svc.Withdraw(ctx, app.ID, candidateID, "")
	assert.True(t, errx.IsCode(err, application.CodeApplicationBlocked))
}

func TestWithdraw_AfterHiringIsBlocked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t)

	_, err := f.svc.ApplyTransition(ctx, recruiterReq(app.ID, application.StatusContratacion))
	require.NoError(t, err)

	_, err = f.svc.Withdraw(ctx, app.ID, candidateID, "")
	assert.True(t, errx.IsCode(err, application.CodeApplicationBlocked))
}

// ============================================================================
// Queries and admin override
// ============================================================================

func TestQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t)
	_, err := f.svc.ApplyTransition(ctx, recruiterReq(app.ID, application.StatusEntrevista))
	require.NoError(t, err)

	recruiter := application.Viewer{UserID: recruiterID, CompanyID: companyID, Role: kernel.RoleRecruiter}
	owner := application.Viewer{UserID: kernel.UserID(candidateID), Role: kernel.RoleCandidate}

	got, err := f.svc.GetApplication(ctx, app.ID, owner)
	require.NoError(t, err)
	assert.Len(t, got.History, 2)

	hist, err := f.svc.History(ctx, app.ID, recruiter)
	require.NoError(t, err)
	assert.Equal(t, app.ID, hist.ApplicationID)
	assert.Len(t, hist.Entries, 2)

	byOffer, err := f.svc.ListByOffer(ctx, offerID, recruiter, kernel.PaginationOptions{})
	require.NoError(t, err)
	assert.Len(t, byOffer.Items, 1)

	_, err = f.svc.ListByOffer(ctx, "missing", recruiter, kernel.PaginationOptions{})
	assert.True(t, errx.IsType(err, errx.TypeNotFound))

	mine, err := f.svc.ListByCandidate(ctx, candidateID, kernel.PaginationOptions{})
	require.NoError(t, err)
	assert.Len(t, mine.Items, 1)

	_, err = f.svc.History(ctx, "missing", recruiter)
	assert.True(t, errx.IsCode(err, application.CodeApplicationNotFound))
}

func TestQueries_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t)

	stranger := application.Viewer{UserID: "cand-2", Role: kernel.RoleCandidate}
	foreignRecruiter := application.Viewer{UserID: "rec-9", CompanyID: otherCo, Role: kernel.RoleRecruiter}
	admin := application.Viewer{UserID: "root", Role: kernel.RoleAdmin}

	_, err := f.svc.GetApplication(ctx, app.ID, stranger)
	assert.True(t, errx.IsType(err, errx.TypeAuthorization))

	_, err = f.svc.History(ctx, app.ID, foreignRecruiter)
	assert.True(t, errx.IsType(err, errx.TypeAuthorization))

	_, err = f.svc.ListByOffer(ctx, offerID, foreignRecruiter, kernel.PaginationOptions{})
	assert.True(t, errx.IsType(err, errx.TypeAuthorization))

	_, err = f.svc.ListByOffer(ctx, offerID, stranger, kernel.PaginationOptions{})
	assert.True(t, errx.IsType(err, errx.TypeAuthorization))

	_, err = f.svc.GetApplication(ctx, app.ID, admin)
	assert.NoError(t, err)
}

func TestAdminDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	app := f.apply(t)

	err := f.svc.AdminDelete(ctx, app.ID, kernel.RoleRecruiter)
	assert.True(t, errx.IsType(err, errx.TypeAuthorization))
	assert.Contains(t, f.apps.apps, app.ID)

	f.cleaner.err = errors.New("s3 unavailable")
	err = f.svc.AdminDelete(ctx, app.ID, kernel.RoleAdmin)
	assert.True(t, errx.IsType(err, errx.TypeExternal))
	assert.Contains(t, f.apps.apps, app.ID)

	f.cleaner.err = nil
	require.NoError(t, f.svc.AdminDelete(ctx, app.ID, kernel.RoleAdmin))
	assert.NotContains(t, f.apps.apps, app.ID)
	assert.Equal(t, []kernel.ApplicationID{app.ID, app.ID}, f.cleaner.purged)
}
