package events

import (
	"encoding/json"
	"time"
)

// Plan types carried in PlanComputedMessage.
const (
	PlanTypeDebt   = "debt"
	PlanTypeGoal   = "goal"
	PlanTypeBudget = "budget"
)

// PlanComputedMessage announces that a plan was computed for a request.
// It carries only identifiers, never the plan payload; consumers that
// want the result recompute or hit the cache with the same key.
type PlanComputedMessage struct {
	PlanType  string    `json:"plan_type"`
	RequestID string    `json:"request_id"`
	CacheKey  string    `json:"cache_key"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPlanComputedMessage creates a plan-computed message stamped with the
// current time.
func NewPlanComputedMessage(planType, requestID, cacheKey string, cacheHit bool) *PlanComputedMessage {
	return &PlanComputedMessage{
		PlanType:  planType,
		RequestID: requestID,
		CacheKey:  cacheKey,
		CacheHit:  cacheHit,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PlanComputedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PlanComputedMessageFromJSON creates a message from JSON bytes
func PlanComputedMessageFromJSON(data []byte) (*PlanComputedMessage, error) {
	var msg PlanComputedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
