package models

// PageLayoutEntry tracks display state for one source page. Entries are
// created once at load and never destroyed; deletion only sets the flag so
// annotations keyed by page number stay addressable.
type PageLayoutEntry struct {
	Page     int  `json:"page"`
	Rotation int  `json:"rotation"`
	Deleted  bool `json:"deleted"`
}

// SaveBundle is what the document-mutation collaborator receives at save
// time: visible pages in display order, total effective rotation per page,
// and every annotation in canonical coordinates.
type SaveBundle struct {
	PageOrder   []int        `json:"page_order"`
	Rotations   map[int]int  `json:"rotations"`
	Annotations []Annotation `json:"annotations"`
}
