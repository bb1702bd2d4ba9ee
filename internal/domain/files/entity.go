package files

import "time"

// Node kinds. A folder groups children and carries no content; files and
// images carry content; only images get derivatives.
const (
	KindFolder = "folder"
	KindFile   = "file"
	KindImage  = "image"
)

// RootParentID is the reserved parent value meaning "top level". It is never
// the id of a real node and never triggers a parent lookup.
const RootParentID = "0"

// File is one node in a principal's hierarchy: a folder, a plain file or an
// image. Locator points into the content store and is set exactly when the
// node is not a folder.
type File struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	UserID    int64     `gorm:"column:user_id;index" json:"userId"`
	Name      string    `gorm:"column:name" json:"name"`
	Kind      string    `gorm:"column:kind" json:"type"`
	ParentID  string    `gorm:"column:parent_id;index" json:"parentId"`
	IsPublic  bool      `gorm:"column:is_public" json:"isPublic"`
	Locator   string    `gorm:"column:locator" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at" json:"-"`
}

func (File) TableName() string { return "files" }

func (f *File) IsFolder() bool { return f.Kind == KindFolder }

// ValidKind reports whether kind names one of the three node kinds.
func ValidKind(kind string) bool {
	switch kind {
	case KindFolder, KindFile, KindImage:
		return true
	}
	return false
}
