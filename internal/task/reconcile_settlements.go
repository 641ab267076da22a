package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/chesterOps/meetro/internal/config"
	"github.com/chesterOps/meetro/internal/gateway"
	"github.com/chesterOps/meetro/internal/modules/donations"
)

const settlementJobName = "settlement_reconciler"

// SettlementReconcileJob walks the gateway's settlement reports since the
// last checkpoint and marks the matching completed donations payout-eligible.
// The run is idempotent under retry: the settleable filter only matches
// donations not yet marked, so re-scanning an already-processed window is a
// no-op, and the checkpoint is only advanced after a fully successful run.
type SettlementReconcileJob struct {
	gateway     gateway.Gateway
	repo        *donations.Repo
	checkpoints *CheckpointStore
	logger      *slog.Logger

	lookback    time.Duration
	interval    time.Duration
	pageSize    int
	txnPageSize int
}

func NewSettlementReconcileJob(gw gateway.Gateway, repo *donations.Repo, checkpoints *CheckpointStore, cfg config.ReconcileConfig) *SettlementReconcileJob {
	lookbackDays := cfg.LookbackDays
	if lookbackDays <= 0 {
		lookbackDays = 1
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	txnPageSize := cfg.TxnPageSize
	if txnPageSize <= 0 {
		txnPageSize = 100
	}
	return &SettlementReconcileJob{
		gateway:     gw,
		repo:        repo,
		checkpoints: checkpoints,
		logger:      slog.Default(),
		lookback:    time.Duration(lookbackDays) * 24 * time.Hour,
		interval:    cfg.Interval,
		pageSize:    pageSize,
		txnPageSize: txnPageSize,
	}
}

func (j *SettlementReconcileJob) SetLogger(l *slog.Logger) { j.logger = l }

func (j *SettlementReconcileJob) GetName() string { return settlementJobName }

func (j *SettlementReconcileJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

func (j *SettlementReconcileJob) Execute() {
	ctx := context.Background()
	total, err := j.Run(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "settlement reconciliation aborted",
			"job", settlementJobName, "reconciled", total, "err", err)
		return
	}
	j.logger.InfoContext(ctx, "settlement reconciliation finished",
		"job", settlementJobName, "reconciled", total)
}

// Run executes one reconciliation pass and returns the number of donations
// marked payout-eligible. Any gateway or store failure aborts the run without
// advancing the checkpoint; the next scheduled run re-scans the same window.
func (j *SettlementReconcileJob) Run(ctx context.Context) (int, error) {
	startedAt := time.Now()

	from, err := j.windowStart(ctx, startedAt)
	if err != nil {
		return 0, err
	}

	total := 0
	for page := 1; ; page++ {
		settlements, err := j.gateway.ListSettlements(ctx, gateway.SettlementQuery{
			From:    from,
			Status:  "success",
			Page:    page,
			PerPage: j.pageSize,
		})
		if err != nil {
			return total, fmt.Errorf("list settlements page %d: %w", page, err)
		}
		if len(settlements) == 0 {
			break
		}

		// Pages must be processed in the order returned; the checkpoint
		// advance assumes the requested window was scanned in full.
		for _, settlement := range settlements {
			n, err := j.reconcileSettlement(ctx, settlement, startedAt)
			if err != nil {
				return total, fmt.Errorf("settlement %d: %w", settlement.ID, err)
			}
			total += n
		}

		// A short page is the last page.
		if len(settlements) < j.pageSize {
			break
		}
	}

	if err := j.checkpoints.Save(ctx, settlementJobName, startedAt); err != nil {
		return total, fmt.Errorf("save checkpoint: %w", err)
	}
	return total, nil
}

// windowStart computes the left edge of the scan window: the checkpoint when
// one exists, the configured lookback otherwise.
func (j *SettlementReconcileJob) windowStart(ctx context.Context, now time.Time) (time.Time, error) {
	last, err := j.checkpoints.LastRun(ctx, settlementJobName)
	if err != nil {
		return time.Time{}, fmt.Errorf("read checkpoint: %w", err)
	}
	if last != nil {
		return *last, nil
	}
	return now.Add(-j.lookback), nil
}

func (j *SettlementReconcileJob) reconcileSettlement(ctx context.Context, s gateway.Settlement, settledAt time.Time) (int, error) {
	total := 0
	for page := 1; ; page++ {
		txns, err := j.gateway.ListSettlementTransactions(ctx, s.ID, page, j.txnPageSize)
		if err != nil {
			return total, fmt.Errorf("list transactions page %d: %w", page, err)
		}
		if len(txns) == 0 {
			break
		}

		refs := make([]string, 0, len(txns))
		for _, t := range txns {
			refs = append(refs, t.Reference)
		}

		n, err := j.markPage(ctx, refs, settledAt)
		if err != nil {
			return total, err
		}
		total += n

		if len(txns) < j.txnPageSize {
			break
		}
	}
	return total, nil
}

// markPage resolves one page of settlement references to local donations and
// flips them payout-eligible in a single batched write.
func (j *SettlementReconcileJob) markPage(ctx context.Context, refs []string, settledAt time.Time) (int, error) {
	matches, err := j.repo.FindSettleable(ctx, refs, j.gateway.Name())
	if err != nil {
		return 0, fmt.Errorf("find settleable donations: %w", err)
	}
	if len(matches) == 0 {
		return 0, nil
	}

	ids := make([]string, len(matches))
	for i, d := range matches {
		ids[i] = d.ID
	}

	rows, err := j.repo.MarkPayoutEligible(ctx, ids, settledAt)
	if err != nil {
		return 0, fmt.Errorf("mark payout eligible: %w", err)
	}
	return int(rows), nil
}
