package replay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketsim/internal/app/ports"
	"marketsim/internal/app/tick"
	"marketsim/internal/domain/clock"
	"marketsim/internal/domain/economy"
)

var (
	ErrInvalidRequest = errors.New("invalid replay request")
	ErrOutOfSequence  = errors.New("tick record out of sequence")
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 1000
)

type UseCase struct {
	Logs  ports.LogRepository
	Clock clock.Clock
}

// Log lists log entries filtered by actor, kind and hour, newest Limit kept.
func (u UseCase) Log(ctx context.Context, req LogRequest) (LogResponse, error) {
	q := ports.LogQuery{Actor: strings.TrimSpace(req.Actor), Day: req.Day, Limit: req.Limit}
	if kind := strings.TrimSpace(req.Kind); kind != "" {
		k, ok := parseKind(kind)
		if !ok {
			return LogResponse{}, ErrInvalidRequest
		}
		q.Kinds = []economy.LogKind{k}
	}
	if req.Hour != nil {
		if req.Day <= 0 || *req.Hour < 0 || *req.Hour > 23 {
			return LogResponse{}, ErrInvalidRequest
		}
		q.Hour, q.ByHour = *req.Hour, true
	}
	if req.Limit < 0 {
		return LogResponse{}, ErrInvalidRequest
	}
	if q.Limit == 0 {
		q.Limit = defaultLogLimit
	}
	if q.Limit > maxLogLimit {
		q.Limit = maxLogLimit
	}
	entries, err := u.Logs.List(ctx, q)
	if err != nil {
		return LogResponse{}, err
	}
	return LogResponse{Entries: entries}, nil
}

// Replay re-applies archived decisions to Seed through the pure tick and reports
// where the regenerated log departs from the recorded one.
func (u UseCase) Replay(ctx context.Context, req ReplayRequest) (ReplayResponse, error) {
	w := req.Seed.Clone()
	w.Normalize()
	if err := w.Validate(); err != nil {
		return ReplayResponse{}, err
	}
	out := ReplayResponse{Divergences: []Divergence{}, Entries: []economy.LogEntry{}}
	for _, rec := range req.Records {
		if err := ctx.Err(); err != nil {
			return ReplayResponse{}, err
		}
		if req.MaxTicks > 0 && out.Ticks >= req.MaxTicks {
			break
		}
		env := tick.EnvFor(w, u.Clock, rec.Seed, &economy.SequenceIDs{})
		next, outcome := economy.Advance(w, rec.Decisions, env)
		if outcome.Day != rec.Day || outcome.Hour != rec.Hour {
			return ReplayResponse{}, fmt.Errorf("%w: replayed day %d hour %d, record day %d hour %d",
				ErrOutOfSequence, outcome.Day, outcome.Hour, rec.Day, rec.Hour)
		}
		if d, ok := diverges(rec, outcome.Entries); ok {
			out.Divergences = append(out.Divergences, d)
		}
		out.Entries = append(out.Entries, outcome.Entries...)
		out.Ticks++
		w = next
	}
	out.Final = w
	return out, nil
}

func diverges(rec ports.TickRecord, got []economy.LogEntry) (Divergence, bool) {
	n := max(len(rec.Entries), len(got))
	for i := 0; i < n; i++ {
		var want, have string
		if i < len(rec.Entries) {
			want = rec.Entries[i].Line()
		}
		if i < len(got) {
			have = got[i].Line()
		}
		if want != have {
			return Divergence{Day: rec.Day, Hour: rec.Hour, Index: i, Want: want, Got: have}, true
		}
	}
	return Divergence{}, false
}

func parseKind(raw string) (economy.LogKind, bool) {
	for _, k := range []economy.LogKind{economy.LogAction, economy.LogThought, economy.LogSystem, economy.LogMarket} {
		if strings.EqualFold(raw, string(k)) {
			return k, true
		}
	}
	return "", false
}
