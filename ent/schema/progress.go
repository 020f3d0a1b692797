package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Progress is the per-user cursor into a course plus the completion flag.
// One record per user; starting a new course overwrites it.
type Progress struct {
	ent.Schema
}

func (Progress) Fields() []ent.Field {
	return []ent.Field{
		field.String("user_id").
			Unique().
			Comment("Owner of this progress record"),
		field.String("course_id").
			Comment("Course the user is enrolled in"),
		field.Int("section").
			Default(0).
			Comment("Current section index"),
		field.Int("step").
			Comment("Current step index; -1 means awaiting start confirmation"),
		field.Bool("completed").
			Default(false),
		field.Time("completed_at").
			Optional().
			Nillable().
			Comment("Set once, on the transition to completed"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (Progress) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("user_id").Unique(),
	}
}
