package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Attempt records one submitted answer.
type Attempt struct {
	ent.Schema
}

func (Attempt) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (Attempt) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			Comment("One id per app run"),
		field.Int("question").
			Positive().
			Comment("Global question number, 1-100"),
		field.String("outcome").
			Comment("validated, confirmed or failed"),
		field.Int("code_length").
			NonNegative().
			Comment("Length of the submitted text; the text itself is not kept"),
	}
}

func (Attempt) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("question"),
	}
}
