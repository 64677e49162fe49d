package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"level-quiz-game/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// BankLoader fetches the question bank from a backing store (JSON asset, DB).
type BankLoader interface {
	LoadBank(ctx context.Context) (domain.QuestionBank, error)
}

// BankRepository caches the serialized question bank in Redis and falls back
// to a loader on cache miss. The bank is stored as one JSON blob:
// SET quizbank:questions {json} EX ttl
type BankRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewBankRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context) (domain.QuestionBank, error) {
	key := r.bankKey()

	if raw, err := r.client.Get(ctx, key).Bytes(); err == nil && len(raw) > 0 {
		if bank, err := decodeBank(raw); err == nil {
			return bank, nil
		}
		// A corrupt cache entry falls through to the loader path below.
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if raw, err := r.client.Get(ctx, key).Bytes(); err == nil && len(raw) > 0 {
			if bank, err := decodeBank(raw); err == nil {
				return bank, nil
			}
		}

		bank, err := r.loader.LoadBank(ctx)
		if err != nil {
			return domain.QuestionBank(nil), err
		}

		if raw, err := json.Marshal(bank); err == nil {
			// best-effort cache fill
			_ = r.client.Set(ctx, key, raw, r.ttlWithJitter()).Err()
		}
		return bank, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(domain.QuestionBank), nil
}

func (r *BankRepository) bankKey() string {
	return "quizbank:questions"
}

func decodeBank(raw []byte) (domain.QuestionBank, error) {
	var bank domain.QuestionBank
	if err := json.Unmarshal(raw, &bank); err != nil {
		return nil, err
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
