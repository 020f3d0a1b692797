package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Conversation is the ordered per-user message log. Messages are stored
// as a JSON array; they are append-only once written.
type Conversation struct {
	ent.Schema
}

func (Conversation) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			Unique().
			Comment("Owner of this conversation"),
		field.JSON("messages", []map[string]string{}).
			Comment("Ordered messages: id, role, content"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (Conversation) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id").Unique(),
	}
}
