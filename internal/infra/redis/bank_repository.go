package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"trivia-game-service/internal/domain"
	"trivia-game-service/internal/infra/memory"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BankRepository caches validated banks in Redis (hash per bank) and falls
// back to the memory repository's parse+validate path on cache miss.
// Questions are stored as: HSET trivia:bank:{bankID} {index} {questionJSON}
type BankRepository struct {
	client   *redis.Client
	fallback *memory.BankRepository
	ttl      time.Duration
	sf       singleflight.Group
	rnd      *rand.Rand
}

func NewBankRepository(client *redis.Client, fallback *memory.BankRepository, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client:   client,
		fallback: fallback,
		ttl:      ttl,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context, bankID string) (domain.Bank, error) {
	key := r.bankKey(bankID)

	fields, err := r.client.HGetAll(ctx, key).Result()
	if err == nil && len(fields) > 0 {
		return buildBankFromHash(bankID, fields)
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		fields, err := r.client.HGetAll(ctx, key).Result()
		if err == nil && len(fields) > 0 {
			bank, err := buildBankFromHash(bankID, fields)
			if err != nil {
				return domain.Bank{}, err
			}
			return bank, nil
		}

		bank, err := r.fallback.GetBank(ctx, bankID)
		if err != nil {
			return domain.Bank{}, err
		}

		ttl := r.ttlWithJitter()
		pipe := r.client.Pipeline()
		for i, q := range bank.Questions {
			raw, err := json.Marshal(q)
			if err != nil {
				return domain.Bank{}, fmt.Errorf("marshal question: %w", err)
			}
			pipe.HSet(ctx, key, strconv.Itoa(i), raw)
		}
		if ttl > 0 {
			pipe.Expire(ctx, key, ttl)
		}
		_, _ = pipe.Exec(ctx)

		return bank, nil
	})
	if err != nil {
		return domain.Bank{}, err
	}
	return result.(domain.Bank), nil
}

func (r *BankRepository) bankKey(bankID string) string {
	return "trivia:bank:" + bankID
}

func buildBankFromHash(bankID string, fields map[string]string) (domain.Bank, error) {
	indices := make([]int, 0, len(fields))
	byIndex := make(map[int]domain.Question, len(fields))
	for field, raw := range fields {
		idx, err := strconv.Atoi(field)
		if err != nil {
			return domain.Bank{}, fmt.Errorf("bad bank hash field %q: %w", field, err)
		}
		var q domain.Question
		if err := json.Unmarshal([]byte(raw), &q); err != nil {
			return domain.Bank{}, fmt.Errorf("unmarshal question: %w", err)
		}
		indices = append(indices, idx)
		byIndex[idx] = q
	}
	sort.Ints(indices)

	bank := domain.Bank{ID: bankID, Questions: make([]domain.Question, 0, len(indices))}
	for _, idx := range indices {
		bank.Questions = append(bank.Questions, byIndex[idx])
	}
	return bank, nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
