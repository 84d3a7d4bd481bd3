package memory

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"trivia-game-service/internal/csvtable"
	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/question"
	"golang.org/x/sync/singleflight"
)

// BankSource fetches raw CSV text for a bank from a backing store
// (Postgres, an embedded file, etc).
type BankSource interface {
	LoadCSV(ctx context.Context, bankID string) (string, error)
}

// BankRepository caches validated banks with TTL to avoid re-parsing and
// repeated store hits. Every bank, the built-in default included, goes
// through the same parse+validate path as a player upload.
type BankRepository struct {
	source      BankSource
	ttl         time.Duration
	minRequired int
	validator   *question.Validator
	clock       func() time.Time
	sf          singleflight.Group
	rnd         *rand.Rand

	mu    sync.RWMutex
	cache map[string]cachedBank
}

type cachedBank struct {
	bank      domain.Bank
	expiresAt time.Time
}

func NewBankRepository(source BankSource, ttl time.Duration, minRequired int) *BankRepository {
	return &BankRepository{
		source:      source,
		ttl:         ttl,
		minRequired: minRequired,
		validator:   question.NewValidator(rand.New(rand.NewSource(time.Now().UnixNano()))),
		clock:       time.Now,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:       make(map[string]cachedBank),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	now := r.clock()

	r.mu.RLock()
	if entry, ok := r.cache[bankID]; ok && entry.expiresAt.After(now) {
		r.mu.RUnlock()
		return entry.bank, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if entry, ok := r.cache[bankID]; ok && entry.expiresAt.After(now) {
			r.mu.RUnlock()
			return entry.bank, nil
		}
		r.mu.RUnlock()

		csv, err := r.source.LoadCSV(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}
		questions, err := r.validator.Validate(csvtable.Parse(csv), r.minRequired)
		if err != nil {
			return domain.Bank{}, fmt.Errorf("bank %s: %w", bankID, err)
		}
		bank := domain.Bank{ID: bankID, Questions: questions}

		r.mu.Lock()
		r.cache[bankID] = cachedBank{
			bank:      bank,
			expiresAt: now.Add(r.ttlWithJitter()),
		}
		r.mu.Unlock()
		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

// StaticBankSource serves CSV text from an in-memory map (embedded default
// bank, tests, demos).
type StaticBankSource struct {
	banks map[string]string
}

func NewStaticBankSource(banks map[string]string) *StaticBankSource {
	return &StaticBankSource{banks: banks}
}

func (s *StaticBankSource) LoadCSV(_ context.Context, bankID string) (string, error) {
	if csv, ok := s.banks[bankID]; ok {
		return csv, nil
	}
	return "", domain.ErrBankNotFound
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
