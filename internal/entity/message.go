/*
 * Copyright (c) 2026 Francesco Biribo'
 *
 * Permission to use, copy, modify, and distribute this software for any purpose with or without fee is hereby granted, provided that the above copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package entity

import "time"

// Represents one guestbook entry.
// Column names follow the historical messages table (m_id, sender, message).
type Message struct {
	ID        uint64     `gorm:"column:m_id;primaryKey;autoIncrement" json:"id"` // Assigned by the store, strictly increasing, never reused
	Sender    string     `gorm:"column:sender;type:text;not null" json:"sender"` // Name given by the visitor
	Text      string     `gorm:"column:message;type:text;not null" json:"text"`  // Content of the entry
	CreatedAt *time.Time `gorm:"column:created_at" json:"created_at,omitempty"`  // Insertion time. Nullable, rows written by older clients have none
}

func (Message) TableName() string {
	return "messages"
}
