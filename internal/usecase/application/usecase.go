package application

import (
	"context"
	"maps"
	"strings"
	"time"

	domain "incorporation-portal/internal/domain/application"
	"incorporation-portal/internal/domain/failure"
	"incorporation-portal/internal/domain/session"
	"incorporation-portal/internal/domain/uow"
	"incorporation-portal/internal/domain/user"
	"incorporation-portal/internal/infrastructure/metrics"
	"incorporation-portal/pkg/id"

	gocache "github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

const statsKey = "stats"

type Usecase struct {
	apps    domain.Repository
	history domain.HistoryRepository
	users   user.Repository
	uow     uow.UnitOfWork
	metrics *metrics.Metrics
	stats   *gocache.Cache
	now     func() time.Time
}

// NewUsecase wires the application flows. m may be nil.
func NewUsecase(apps domain.Repository, history domain.HistoryRepository, users user.Repository, tx uow.UnitOfWork, m *metrics.Metrics) *Usecase {
	return &Usecase{
		apps:    apps,
		history: history,
		users:   users,
		uow:     tx,
		metrics: m,
		stats:   gocache.New(30*time.Second, time.Minute),
		now:     time.Now,
	}
}

// WithClock replaces the time source.
func (u *Usecase) WithClock(now func() time.Time) *Usecase {
	u.now = now
	return u
}

// Submit stores a new application in status pending. Every call creates a new
// record; identical payloads are not merged.
func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*SubmitResult, error) {
	const op = "application.Submit"

	now := u.now().UTC()
	payload := domain.Current{
		SchemaVersion:           domain.SchemaCurrent,
		CompanyName:             strings.TrimSpace(in.CompanyName),
		AlternateNames:          in.AlternateNames,
		BusinessType:            in.BusinessType,
		Industry:                in.Industry,
		Founders:                in.Founders,
		RegisteredAddress:       in.RegisteredAddress,
		BusinessAddress:         in.BusinessAddress,
		AuthorizedCapital:       in.AuthorizedCapital,
		PaidUpCapital:           in.PaidUpCapital,
		BusinessDescription:     in.BusinessDescription,
		NumberOfDirectors:       in.NumberOfDirectors,
		Directors:               in.Directors,
		DirectorDetails:         in.DirectorDetails,
		BusinessPlan:            in.BusinessPlan,
		EstimatedTurnover:       in.EstimatedTurnover,
		BankingPartner:          in.BankingPartner,
		GSTRequired:             in.GSTRequired,
		AdditionalServices:      in.AdditionalServices,
		StudentName:             in.StudentName,
		SchoolName:              in.SchoolName,
		ContactPerson:           in.ContactPerson,
		PhoneNumber:             in.PhoneNumber,
		Email:                   in.Email,
		PreferredCompletionDate: in.PreferredCompletionDate,
		EstimatedCompletion:     in.PreferredCompletionDate,
	}
	if payload.EstimatedCompletion == "" {
		payload.EstimatedCompletion = "TBD"
	}
	if payload.GSTRequired == "" {
		payload.GSTRequired = "yes"
	}
	raw, err := datatypes.NewJSONType(payload).MarshalJSON()
	if err != nil {
		return nil, failure.New(failure.KindValidation, op, err)
	}

	a := &domain.Application{
		DocumentID:    id.NewID32(),
		ApplicationID: id.NewApplicationID(now),
		Status:        domain.StatusPending,
		SchemaVersion: int(domain.SchemaCurrent),
		Payload:       datatypes.JSON(raw),
		Version:       1,
		SubmittedAt:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if s, ok := session.FromContext(ctx); ok {
		a.UserID = s.UserID
		a.UserEmail = s.Email
	}

	if err := u.apps.Create(ctx, a); err != nil {
		return nil, failure.FromStore(op, err)
	}
	u.metrics.Submitted()
	u.stats.Delete(statsKey)

	return &SubmitResult{
		DocumentID:          a.DocumentID,
		ApplicationID:       a.ApplicationID,
		Status:              a.Status,
		SubmittedAt:         a.SubmittedAt,
		EstimatedCompletion: payload.EstimatedCompletion,
	}, nil
}

// List returns the canonical views of all applications, newest first,
// narrowed by in. Admin only.
func (u *Usecase) List(ctx context.Context, in ListInput) ([]domain.View, error) {
	const op = "application.List"
	if _, err := session.RequireAdmin(ctx, op); err != nil {
		return nil, err
	}
	q := domain.Query{Search: in.Search, Status: in.Status}
	if st := strings.TrimSpace(q.Status); st != "" && !strings.EqualFold(st, domain.StatusAll) {
		if _, ok := domain.ParseStatus(st); !ok {
			return nil, failure.New(failure.KindValidation, op, domain.ErrInvalidStatus)
		}
	}

	apps, err := u.apps.List(ctx)
	if err != nil {
		return nil, failure.FromStore(op, err)
	}
	return domain.Filter(domain.CanonicalizeAll(apps), q), nil
}

// ListMine returns the caller's own applications.
func (u *Usecase) ListMine(ctx context.Context) ([]domain.View, error) {
	const op = "application.ListMine"
	s, err := session.Require(ctx, op)
	if err != nil {
		return nil, err
	}
	apps, err := u.apps.ListByUser(ctx, s.UserID)
	if err != nil {
		return nil, failure.FromStore(op, err)
	}
	return domain.CanonicalizeAll(apps), nil
}

// Get resolves ref as an application id or document id. Admins see every
// record, other callers only their own.
func (u *Usecase) Get(ctx context.Context, ref string) (*domain.View, error) {
	const op = "application.Get"
	a, err := u.readable(ctx, op, ref)
	if err != nil {
		return nil, err
	}
	v := domain.Canonicalize(*a)
	return &v, nil
}

// History lists the status changes of one application, oldest first.
func (u *Usecase) History(ctx context.Context, ref string) ([]domain.StatusChange, error) {
	const op = "application.History"
	a, err := u.readable(ctx, op, ref)
	if err != nil {
		return nil, err
	}
	changes, err := u.history.ListByDocument(ctx, a.DocumentID)
	if err != nil {
		return nil, failure.FromStore(op, err)
	}
	return changes, nil
}

func (u *Usecase) readable(ctx context.Context, op, ref string) (*domain.Application, error) {
	s, err := session.Require(ctx, op)
	if err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, failure.Newf(failure.KindValidation, op, "empty application reference")
	}
	a, err := u.apps.GetByRef(ctx, ref)
	if err != nil {
		return nil, failure.FromStore(op, err)
	}
	if !s.IsAdmin() && a.UserID != s.UserID {
		return nil, failure.Newf(failure.KindPermissionDenied, op, "not the owner of this application")
	}
	return a, nil
}

// TransitionStatus sets the status of one application. Any status may follow
// any status. The write is compare-and-swap on the record version, so of two
// admins editing the same record the second gets a conflict instead of
// silently overwriting the first.
func (u *Usecase) TransitionStatus(ctx context.Context, in TransitionInput) (*domain.View, error) {
	const op = "application.TransitionStatus"
	s, err := session.RequireAdmin(ctx, op)
	if err != nil {
		return nil, err
	}
	to, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, failure.New(failure.KindValidation, op, errors.Wrapf(domain.ErrInvalidStatus, "%q", in.Status))
	}

	var (
		out  domain.Application
		from domain.Status
	)
	err = u.uow.WithinApplicationTx(ctx, strings.TrimSpace(in.Ref), func(r uow.Repos, a *domain.Application) error {
		if in.ExpectedVersion != 0 && a.Version != in.ExpectedVersion {
			return errors.Wrapf(domain.ErrStaleVersion, "have v%d, caller read v%d", a.Version, in.ExpectedVersion)
		}
		if !domain.CanTransition(a.Status, to) {
			return errors.Wrapf(domain.ErrInvalidStatus, "%s -> %s", a.Status, to)
		}

		now := u.now().UTC()
		if err := r.Applications.UpdateStatus(ctx, a.DocumentID, to, a.Version, now); err != nil {
			return errors.Wrap(err, "update status")
		}
		change := &domain.StatusChange{
			DocumentID: a.DocumentID,
			FromStatus: a.Status,
			ToStatus:   to,
			Version:    a.Version + 1,
			ChangedBy:  s.UserID,
			ChangedAt:  now,
		}
		if err := r.History.Create(ctx, change); err != nil {
			return errors.Wrap(err, "record status change")
		}

		from = a.Status
		out = *a
		out.Status = to
		out.Version = a.Version + 1
		out.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, classify(op, err)
	}

	u.metrics.Transition(string(from), string(to))
	u.stats.Delete(statsKey)
	v := domain.Canonicalize(out)
	return &v, nil
}

// Delete removes an application and its history permanently. Admin only.
func (u *Usecase) Delete(ctx context.Context, ref string) error {
	const op = "application.Delete"
	if _, err := session.RequireAdmin(ctx, op); err != nil {
		return err
	}
	err := u.uow.WithinApplicationTx(ctx, strings.TrimSpace(ref), func(r uow.Repos, a *domain.Application) error {
		if err := r.History.DeleteByDocument(ctx, a.DocumentID); err != nil {
			return errors.Wrap(err, "delete history")
		}
		return errors.Wrap(r.Applications.Delete(ctx, a.DocumentID), "delete application")
	})
	if err != nil {
		return classify(op, err)
	}
	u.stats.Delete(statsKey)
	return nil
}

// Stats counts applications per status plus registered users. Results are
// cached briefly and dropped on every mutation. Admin only.
func (u *Usecase) Stats(ctx context.Context) (*Stats, error) {
	const op = "application.Stats"
	if _, err := session.RequireAdmin(ctx, op); err != nil {
		return nil, err
	}
	if v, ok := u.stats.Get(statsKey); ok {
		st := v.(Stats)
		st.ByStatus = maps.Clone(st.ByStatus)
		return &st, nil
	}

	counts, err := u.apps.CountByStatus(ctx)
	if err != nil {
		return nil, failure.FromStore(op, err)
	}
	users, err := u.users.Count(ctx)
	if err != nil {
		return nil, failure.FromStore(op, err)
	}

	st := Stats{ByStatus: make(map[domain.Status]int64, len(domain.Statuses())), TotalUsers: users}
	for _, s := range domain.Statuses() {
		st.ByStatus[s] = counts[s]
		st.TotalApplications += counts[s]
	}
	cached := st
	cached.ByStatus = maps.Clone(st.ByStatus)
	u.stats.SetDefault(statsKey, cached)
	return &st, nil
}

func classify(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrStaleVersion):
		return failure.New(failure.KindConflict, op, err)
	case errors.Is(err, domain.ErrNotFound):
		return failure.New(failure.KindNotFound, op, err)
	case errors.Is(err, domain.ErrInvalidStatus):
		return failure.New(failure.KindValidation, op, err)
	}
	return failure.FromStore(op, err)
}
