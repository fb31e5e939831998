package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/wex-clearinghouse/core/pkg/apierr"
	"github.com/wex-clearinghouse/core/pkg/models"
)

// SMSConversationStateRepository persists one row per phone number. The
// SMS orchestrator's per-phone mutex registry (pkg/sms) guards concurrent
// access; this repository does no locking of its own beyond the
// transaction boundary a caller chooses to use.
type SMSConversationStateRepository struct {
	db *sql.DB
}

// NewSMSConversationStateRepository constructs the repository over the shared pool.
func NewSMSConversationStateRepository(client *Client) *SMSConversationStateRepository {
	return &SMSConversationStateRepository{db: client.DB()}
}

// Upsert creates or replaces the conversation state for a phone number.
func (r *SMSConversationStateRepository) Upsert(ctx context.Context, s *models.SMSConversationState) error {
	s.UpdatedAt = time.Now().UTC()
	criteria, err := json.Marshal(s.Criteria)
	if err != nil {
		return fmt.Errorf("marshal criteria: %w", err)
	}
	transcript, err := json.Marshal(s.Transcript)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO sms_conversation_states (phone, phase, turn, criteria, presented_match_ids,
			focused_match_id, renter_first_name, renter_last_name, buyer_email, engagement_id,
			guarantee_link_token, search_session_token, search_session_expires_at, name_status,
			name_requested_at_turn, next_reengagement_at, reengage_attempt, transcript, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		 ON CONFLICT (phone) DO UPDATE SET
			phase = EXCLUDED.phase, turn = EXCLUDED.turn, criteria = EXCLUDED.criteria,
			presented_match_ids = EXCLUDED.presented_match_ids, focused_match_id = EXCLUDED.focused_match_id,
			renter_first_name = EXCLUDED.renter_first_name, renter_last_name = EXCLUDED.renter_last_name,
			buyer_email = EXCLUDED.buyer_email, engagement_id = EXCLUDED.engagement_id,
			guarantee_link_token = EXCLUDED.guarantee_link_token, search_session_token = EXCLUDED.search_session_token,
			search_session_expires_at = EXCLUDED.search_session_expires_at, name_status = EXCLUDED.name_status,
			name_requested_at_turn = EXCLUDED.name_requested_at_turn,
			next_reengagement_at = EXCLUDED.next_reengagement_at, reengage_attempt = EXCLUDED.reengage_attempt,
			transcript = EXCLUDED.transcript, updated_at = EXCLUDED.updated_at`,
		s.Phone, s.Phase, s.Turn, criteria, pq.Array(s.PresentedMatchIDs), s.FocusedMatchID,
		s.RenterFirstName, s.RenterLastName, s.BuyerEmail, s.EngagementID, s.GuaranteeLinkToken,
		s.SearchSessionToken, s.SearchSessionExpiresAt, s.NameStatus, s.NameRequestedAtTurn,
		s.NextReengagementAt, s.ReengageAttempt, transcript, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert sms conversation state: %w", err)
	}
	return nil
}

// Get fetches the conversation state for a phone number.
func (r *SMSConversationStateRepository) Get(ctx context.Context, phone string) (*models.SMSConversationState, error) {
	var s models.SMSConversationState
	var criteria, transcript []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT phone, phase, turn, criteria, presented_match_ids, focused_match_id, renter_first_name,
			renter_last_name, buyer_email, engagement_id, guarantee_link_token, search_session_token,
			search_session_expires_at, name_status, name_requested_at_turn, next_reengagement_at,
			reengage_attempt, transcript, updated_at
		 FROM sms_conversation_states WHERE phone = $1`, phone,
	).Scan(&s.Phone, &s.Phase, &s.Turn, &criteria, pq.Array(&s.PresentedMatchIDs), &s.FocusedMatchID,
		&s.RenterFirstName, &s.RenterLastName, &s.BuyerEmail, &s.EngagementID, &s.GuaranteeLinkToken,
		&s.SearchSessionToken, &s.SearchSessionExpiresAt, &s.NameStatus, &s.NameRequestedAtTurn,
		&s.NextReengagementAt, &s.ReengageAttempt, &transcript, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NewNotFound("sms_conversation_state", phone)
	}
	if err != nil {
		return nil, fmt.Errorf("get sms conversation state: %w", err)
	}
	if len(criteria) > 0 {
		if err := json.Unmarshal(criteria, &s.Criteria); err != nil {
			return nil, fmt.Errorf("unmarshal criteria: %w", err)
		}
	}
	if len(transcript) > 0 {
		if err := json.Unmarshal(transcript, &s.Transcript); err != nil {
			return nil, fmt.Errorf("unmarshal transcript: %w", err)
		}
	}
	return &s, nil
}

// ListDueForReengagement returns every conversation whose
// NextReengagementAt has passed, for the reengagement scheduler job.
func (r *SMSConversationStateRepository) ListDueForReengagement(ctx context.Context, now time.Time) ([]*models.SMSConversationState, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT phone FROM sms_conversation_states WHERE next_reengagement_at IS NOT NULL AND next_reengagement_at <= $1`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("list due reengagements: %w", err)
	}
	defer rows.Close()

	var phones []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan phone: %w", err)
		}
		phones = append(phones, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]*models.SMSConversationState, 0, len(phones))
	for _, p := range phones {
		s, err := r.Get(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
