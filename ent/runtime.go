// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/neyapai/server/ent/conversation"
	"github.com/neyapai/server/ent/progress"
	"github.com/neyapai/server/ent/schema"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	conversationFields := schema.Conversation{}.Fields()
	_ = conversationFields
	// conversationDescUpdatedAt is the schema descriptor for updated_at field.
	conversationDescUpdatedAt := conversationFields[2].Descriptor()
	// conversation.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	conversation.DefaultUpdatedAt = conversationDescUpdatedAt.Default.(func() time.Time)
	// conversation.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	conversation.UpdateDefaultUpdatedAt = conversationDescUpdatedAt.UpdateDefault.(func() time.Time)
	progressFields := schema.Progress{}.Fields()
	_ = progressFields
	// progressDescSection is the schema descriptor for section field.
	progressDescSection := progressFields[2].Descriptor()
	// progress.DefaultSection holds the default value on creation for the section field.
	progress.DefaultSection = progressDescSection.Default.(int)
	// progressDescCompleted is the schema descriptor for completed field.
	progressDescCompleted := progressFields[4].Descriptor()
	// progress.DefaultCompleted holds the default value on creation for the completed field.
	progress.DefaultCompleted = progressDescCompleted.Default.(bool)
	// progressDescUpdatedAt is the schema descriptor for updated_at field.
	progressDescUpdatedAt := progressFields[6].Descriptor()
	// progress.DefaultUpdatedAt holds the default value on creation for the updated_at field.
	progress.DefaultUpdatedAt = progressDescUpdatedAt.Default.(func() time.Time)
	// progress.UpdateDefaultUpdatedAt holds the default value on update for the updated_at field.
	progress.UpdateDefaultUpdatedAt = progressDescUpdatedAt.UpdateDefault.(func() time.Time)
}
