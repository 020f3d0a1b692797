package store

import (
	"context"
	"fmt"

	"github.com/neyapai/server/ent"
	"github.com/neyapai/server/ent/conversation"
)

// conversationRepo implements ConversationRepo using the ent client.
type conversationRepo struct {
	client *ent.Client
}

func (r *conversationRepo) Get(ctx context.Context, userID string) ([]Message, error) {
	c, err := r.client.Conversation.Query().
		Where(conversation.UserIDEQ(userID)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("query conversation: %w", err)
	}
	return mapsToMessages(c.Messages), nil
}

func (r *conversationRepo) Reset(ctx context.Context, userID string, messages []Message) error {
	maps := messagesToMaps(messages)

	existing, err := r.client.Conversation.Query().
		Where(conversation.UserIDEQ(userID)).
		Only(ctx)
	if err != nil && !ent.IsNotFound(err) {
		return fmt.Errorf("query conversation: %w", err)
	}

	if existing != nil {
		_, err = existing.Update().SetMessages(maps).Save(ctx)
		if err != nil {
			return fmt.Errorf("reset conversation: %w", err)
		}
		return nil
	}

	_, err = r.client.Conversation.Create().
		SetUserID(userID).
		SetMessages(maps).
		Save(ctx)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}
	return nil
}

func (r *conversationRepo) Append(ctx context.Context, userID string, messages ...Message) error {
	existing, err := r.client.Conversation.Query().
		Where(conversation.UserIDEQ(userID)).
		Only(ctx)
	if err != nil {
		if ent.IsNotFound(err) {
			return r.Reset(ctx, userID, messages)
		}
		return fmt.Errorf("query conversation: %w", err)
	}

	combined := append(existing.Messages, messagesToMaps(messages)...)
	_, err = existing.Update().SetMessages(combined).Save(ctx)
	if err != nil {
		return fmt.Errorf("append to conversation: %w", err)
	}
	return nil
}

func (r *conversationRepo) Delete(ctx context.Context, userID string) error {
	_, err := r.client.Conversation.Delete().
		Where(conversation.UserIDEQ(userID)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete conversation: %w", err)
	}
	return nil
}

func messagesToMaps(messages []Message) []map[string]string {
	out := make([]map[string]string, len(messages))
	for i, m := range messages {
		out[i] = map[string]string{
			"id":      m.ID,
			"role":    m.Role,
			"content": m.Content,
		}
	}
	return out
}

func mapsToMessages(maps []map[string]string) []Message {
	out := make([]Message, 0, len(maps))
	for _, m := range maps {
		out = append(out, Message{
			ID:      m["id"],
			Role:    m["role"],
			Content: m["content"],
		})
	}
	return out
}
