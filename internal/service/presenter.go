package service

import (
	"context"
	"time"

	"croncommander/internal/domain"
	gateway "croncommander/internal/gateway/iface"
	"croncommander/internal/i18n"
	"croncommander/internal/logger"
	"croncommander/internal/metrics"

	ut "github.com/go-playground/universal-translator"
)

// Headings are the localized table column titles
type Headings struct {
	Title      string `json:"title"`
	Hook       string `json:"hook"`
	NextRun    string `json:"next_run"`
	Recurrence string `json:"recurrence"`
	Action     string `json:"action"`
}

// ActionLabels are the localized button labels, used to relabel after a toggle
type ActionLabels struct {
	Stop    string `json:"stop"`
	Start   string `json:"start"`
	Then    string `json:"then"`
	Failure string `json:"failure"`
}

// DisplayRow is one rendered job
type DisplayRow struct {
	HookID       string `json:"hook"`
	DueTime      int64  `json:"timestamp"`
	NextRun      string `json:"next_run"`
	Recurrence   string `json:"recurrence"`
	FollowingRun string `json:"following_run,omitempty"`
	Recurring    bool   `json:"recurring"`
	Action       string `json:"action"`
}

// Table is the rendered schedule. Empty is set when there is nothing to show.
type Table struct {
	Locale       string       `json:"locale"`
	Empty        bool         `json:"empty"`
	EmptyMessage string       `json:"empty_message,omitempty"`
	Headings     Headings     `json:"headings"`
	Labels       ActionLabels `json:"labels"`
	Rows         []DisplayRow `json:"rows"`
}

// Presenter turns schedule snapshots into localized tables
type Presenter struct {
	gateway   gateway.Gateway
	catalog   *i18n.Catalog
	intervals *IntervalRegistry
	location  *time.Location
	metrics   *metrics.Metrics
	logger    logger.Logger
}

// NewPresenter creates a presenter rendering times in location (UTC if nil)
func NewPresenter(
	gw gateway.Gateway,
	catalog *i18n.Catalog,
	intervals *IntervalRegistry,
	location *time.Location,
	m *metrics.Metrics,
	log logger.Logger,
) *Presenter {
	if location == nil {
		location = time.UTC
	}
	return &Presenter{
		gateway:   gw,
		catalog:   catalog,
		intervals: intervals,
		location:  location,
		metrics:   m,
		logger:    log.With(logger.String("component", "presenter")),
	}
}

// View reads the current schedule, applies filterSrc and renders it
func (p *Presenter) View(ctx context.Context, filterSrc string, locales ...string) (Table, error) {
	filter, err := CompileFilter(filterSrc)
	if err != nil {
		return Table{}, err
	}

	snapshot, err := p.gateway.ListAll(ctx)
	if err != nil {
		p.logger.WithContext(ctx).Error("failed to list scheduled jobs", logger.Error(err))
		return Table{}, err
	}
	p.metrics.ObserveSnapshot(snapshot.Len())

	snapshot, err = filter.Apply(snapshot)
	if err != nil {
		return Table{}, err
	}

	return p.Render(snapshot, locales...), nil
}

// Render formats snapshot for the first supported locale in locales
func (p *Presenter) Render(snapshot *domain.ScheduleSnapshot, locales ...string) Table {
	trans := p.catalog.Translator(locales...)

	table := Table{
		Locale: trans.Locale(),
		Headings: Headings{
			Title:      i18n.T(trans, i18n.MsgTitle),
			Hook:       i18n.T(trans, i18n.MsgHook),
			NextRun:    i18n.T(trans, i18n.MsgNextRun),
			Recurrence: i18n.T(trans, i18n.MsgRecurrence),
			Action:     i18n.T(trans, i18n.MsgAction),
		},
		Labels: ActionLabels{
			Stop:    i18n.T(trans, i18n.MsgStop),
			Start:   i18n.T(trans, i18n.MsgStart),
			Then:    i18n.T(trans, i18n.MsgThen),
			Failure: i18n.T(trans, i18n.MsgRequestFailed),
		},
	}

	if snapshot.IsEmpty() {
		table.Empty = true
		table.EmptyMessage = i18n.T(trans, i18n.MsgNoTasks)
		return table
	}

	table.Rows = make([]DisplayRow, 0, snapshot.Len())
	for _, job := range snapshot.Jobs() {
		table.Rows = append(table.Rows, p.row(trans, job))
	}
	return table
}

func (p *Presenter) row(trans ut.Translator, job domain.ScheduledJob) DisplayRow {
	row := DisplayRow{
		HookID:    job.HookID,
		DueTime:   job.DueTime,
		NextRun:   i18n.FormatDateTime(trans, time.Unix(job.DueTime, 0).In(p.location)),
		Recurring: job.IsRecurring(),
	}

	if row.Recurring {
		row.Recurrence = job.Recurrence
		row.Action = i18n.T(trans, i18n.MsgStop)
		if next, ok := p.intervals.FollowingRun(job); ok {
			row.FollowingRun = i18n.FormatDateTime(trans, next.In(p.location))
		}
	} else {
		row.Recurrence = i18n.T(trans, i18n.MsgOneTime)
		row.Action = i18n.T(trans, i18n.MsgStart)
	}

	return row
}
