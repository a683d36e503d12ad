package models

import "time"

// SavedTable pairs raw markdown content with a style configuration.
type SavedTable struct {
	ID              int64     `json:"id" db:"id"`
	UserID          *int64    `json:"userId" db:"user_id"`
	Name            string    `json:"name" db:"name"`
	MarkdownContent string    `json:"markdownContent" db:"markdown_content"`
	Styles          StyleBlob `json:"styles" db:"styles"`
	IsPublic        bool      `json:"isPublic" db:"is_public"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// OwnedBy reports whether userID owns the record. Anonymous records have no owner.
func (t *SavedTable) OwnedBy(userID int64) bool {
	return t.UserID != nil && *t.UserID == userID
}

// SavedTablePatch holds the fields an update may change. Nil fields are left untouched.
type SavedTablePatch struct {
	Name            *string    `json:"name,omitempty"`
	MarkdownContent *string    `json:"markdownContent,omitempty"`
	Styles          *StyleBlob `json:"styles,omitempty"`
	IsPublic        *bool      `json:"isPublic,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p SavedTablePatch) IsEmpty() bool {
	return p.Name == nil && p.MarkdownContent == nil && p.Styles == nil && p.IsPublic == nil
}

// ApplyTo copies the present fields onto t.
func (p SavedTablePatch) ApplyTo(t *SavedTable) {
	if p.Name != nil {
		t.Name = *p.Name
	}
	if p.MarkdownContent != nil {
		t.MarkdownContent = *p.MarkdownContent
	}
	if p.Styles != nil {
		t.Styles = append(StyleBlob(nil), (*p.Styles)...)
	}
	if p.IsPublic != nil {
		t.IsPublic = *p.IsPublic
	}
}

// CustomTheme is a user-saved style configuration.
type CustomTheme struct {
	ID        int64     `json:"id" db:"id"`
	UserID    *int64    `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Styles    StyleBlob `json:"styles" db:"styles"`
	IsPublic  bool      `json:"isPublic" db:"is_public"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// OwnedBy reports whether userID owns the theme.
func (t *CustomTheme) OwnedBy(userID int64) bool {
	return t.UserID != nil && *t.UserID == userID
}
