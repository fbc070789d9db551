package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

type MessageRecord struct {
	ID        uuid.UUID
	PairKey   string
	SenderID  string
	Body      string
	CreatedAt time.Time
}

// ChatSummaryRecord is the per-match row the friends list is built from:
// the latest message (if any) plus the unread count for the viewer.
type ChatSummaryRecord struct {
	PairKey       string
	LastMessage   string
	LastSenderID  string
	LastMessageAt time.Time
	UnreadCount   int
}

func (r *ChatRepo) InsertMessage(ctx context.Context, pairKey, senderID, body string) (MessageRecord, error) {
	if pairKey == "" || senderID == "" || body == "" {
		return MessageRecord{}, fmt.Errorf("invalid message payload")
	}
	if r.pool == nil {
		return MessageRecord{}, fmt.Errorf("postgres pool is nil")
	}

	rec := MessageRecord{
		ID:       uuid.New(),
		PairKey:  pairKey,
		SenderID: senderID,
		Body:     body,
	}

	err := r.pool.QueryRow(ctx, `
INSERT INTO messages (
	id,
	pair_key,
	sender_id,
	body,
	created_at
) VALUES ($1, $2, $3, $4, NOW())
RETURNING created_at
`, rec.ID, rec.PairKey, rec.SenderID, rec.Body).Scan(&rec.CreatedAt)
	if err != nil {
		return MessageRecord{}, fmt.Errorf("insert message: %w", err)
	}

	return rec, nil
}

func (r *ChatRepo) ListMessages(ctx context.Context, pairKey string, limit int) ([]MessageRecord, error) {
	if pairKey == "" {
		return nil, fmt.Errorf("invalid pair key")
	}
	if limit <= 0 {
		limit = 200
	}
	if r.pool == nil {
		return []MessageRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, pair_key, sender_id, body, created_at
FROM messages
WHERE pair_key = $1
ORDER BY created_at, id
LIMIT $2
`, pairKey, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	items := make([]MessageRecord, 0, limit)
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(&rec.ID, &rec.PairKey, &rec.SenderID, &rec.Body, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		items = append(items, rec)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate messages: %w", rows.Err())
	}

	return items, nil
}

// MarkRead moves the viewer's read watermark for a chat to now.
func (r *ChatRepo) MarkRead(ctx context.Context, pairKey, userID string) error {
	if pairKey == "" || userID == "" {
		return fmt.Errorf("invalid read payload")
	}
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}

	if _, err := r.pool.Exec(ctx, `
INSERT INTO chat_reads (
	pair_key,
	user_id,
	last_read_at
) VALUES ($1, $2, NOW())
ON CONFLICT (pair_key, user_id) DO UPDATE SET
	last_read_at = EXCLUDED.last_read_at
`, pairKey, userID); err != nil {
		return fmt.Errorf("mark chat read: %w", err)
	}

	return nil
}

// ListSummaries returns one row per pair key with the latest message and the
// viewer's unread count. Pairs with no messages yet still get a row, with
// zero values, so a fresh match shows up in the friends list.
func (r *ChatRepo) ListSummaries(ctx context.Context, userID string, pairKeys []string) (map[string]ChatSummaryRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("invalid user id")
	}
	if len(pairKeys) == 0 {
		return map[string]ChatSummaryRecord{}, nil
	}
	if r.pool == nil {
		return map[string]ChatSummaryRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	k.pair_key,
	COALESCE(last.body, ''),
	COALESCE(last.sender_id, ''),
	COALESCE(last.created_at, 'epoch'::timestamptz),
	COALESCE(unread.cnt, 0)
FROM unnest($1::text[]) AS k(pair_key)
LEFT JOIN LATERAL (
	SELECT m.body, m.sender_id, m.created_at
	FROM messages m
	WHERE m.pair_key = k.pair_key
	ORDER BY m.created_at DESC, m.id DESC
	LIMIT 1
) last ON TRUE
LEFT JOIN LATERAL (
	SELECT COUNT(*) AS cnt
	FROM messages m
	WHERE m.pair_key = k.pair_key
		AND m.sender_id <> $2
		AND m.created_at > COALESCE((
			SELECT cr.last_read_at
			FROM chat_reads cr
			WHERE cr.pair_key = k.pair_key AND cr.user_id = $2
		), 'epoch'::timestamptz)
) unread ON TRUE
`, pairKeys, userID)
	if err != nil {
		return nil, fmt.Errorf("list chat summaries: %w", err)
	}
	defer rows.Close()

	out := make(map[string]ChatSummaryRecord, len(pairKeys))
	for rows.Next() {
		var rec ChatSummaryRecord
		if err := rows.Scan(&rec.PairKey, &rec.LastMessage, &rec.LastSenderID, &rec.LastMessageAt, &rec.UnreadCount); err != nil {
			return nil, fmt.Errorf("scan chat summary: %w", err)
		}
		out[rec.PairKey] = rec
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate chat summaries: %w", rows.Err())
	}

	return out, nil
}

// HasMessageFrom reports whether the given sender wrote at least one message
// in the chat. Reporting a chat partner requires this.
func (r *ChatRepo) HasMessageFrom(ctx context.Context, pairKey, senderID string) (bool, error) {
	if pairKey == "" || senderID == "" {
		return false, fmt.Errorf("invalid message lookup")
	}
	if r.pool == nil {
		return false, nil
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1 FROM messages
	WHERE pair_key = $1 AND sender_id = $2
)
`, pairKey, senderID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check messages from sender: %w", err)
	}

	return exists, nil
}

// Close marks the chat closed so no further messages are accepted. Closing
// twice is a no-op; the first closer is kept.
func (r *ChatRepo) Close(ctx context.Context, tx pgx.Tx, pairKey, closedByID string) error {
	if pairKey == "" || closedByID == "" {
		return fmt.Errorf("invalid close payload")
	}
	if tx == nil {
		return fmt.Errorf("transaction is required")
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO chat_closures (
	pair_key,
	closed_by,
	created_at
) VALUES ($1, $2, NOW())
ON CONFLICT (pair_key) DO NOTHING
`, pairKey, closedByID); err != nil {
		return fmt.Errorf("close chat: %w", err)
	}

	return nil
}

func (r *ChatRepo) IsClosed(ctx context.Context, pairKey string) (bool, error) {
	if pairKey == "" {
		return false, fmt.Errorf("invalid pair key")
	}
	if r.pool == nil {
		return false, nil
	}

	var closed bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1 FROM chat_closures WHERE pair_key = $1
)
`, pairKey).Scan(&closed)
	if err != nil {
		return false, fmt.Errorf("check chat closed: %w", err)
	}

	return closed, nil
}
