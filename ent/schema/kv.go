package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// KV is the durable tier of the progress store.
type KV struct {
	ent.Schema
}

func (KV) Fields() []ent.Field {
	return []ent.Field{
		field.String("key").
			Unique().
			Immutable().
			Comment("Storage key, e.g. usbLordProgress"),
		field.Bytes("value").
			Comment("Opaque payload, JSON for progress records"),
		field.Int64("updated_at").
			Comment("Unix milliseconds of the last write"),
	}
}
