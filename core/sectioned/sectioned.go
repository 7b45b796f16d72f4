package sectioned

import "fmt"

// IndexPath identifies a position in a sectioned model.
type IndexPath struct {
	// Section is the zero-based section index.
	Section int `json:"section"`
	// Item is the zero-based item index within the section.
	Item int `json:"item"`
}

// Path is a convenience constructor for IndexPath.
func Path(section, item int) IndexPath {
	return IndexPath{Section: section, Item: item}
}

// String renders the path as "(section,item)".
func (p IndexPath) String() string {
	return fmt.Sprintf("(%d,%d)", p.Section, p.Item)
}

// Section is an ordered run of items under a title.
type Section struct {
	// Title is the display title for the section. May be empty.
	Title string `json:"title"`
	// Items holds the section's items in display order.
	Items []any `json:"items"`
}

// Model is an ordered sequence of sections. It is not safe for concurrent
// use; all access is expected to happen on the thread owning the surface.
type Model struct {
	sections []Section
}

// NewModel creates a model from the given sections. The slice is used as-is.
func NewModel(sections ...Section) *Model {
	return &Model{sections: sections}
}

// NumberOfSections returns the section count.
func (m *Model) NumberOfSections() int {
	return len(m.sections)
}

// NumberOfItems returns the item count of the given section, or 0 if the
// section index is out of range.
func (m *Model) NumberOfItems(section int) int {
	if section < 0 || section >= len(m.sections) {
		return 0
	}
	return len(m.sections[section].Items)
}

// SectionTitle returns the title of the given section, or "" if out of range.
func (m *Model) SectionTitle(section int) string {
	if section < 0 || section >= len(m.sections) {
		return ""
	}
	return m.sections[section].Title
}

// Item returns the item at the given path. ok is false when the path does not
// address an existing item.
func (m *Model) Item(path IndexPath) (any, bool) {
	if path.Section < 0 || path.Section >= len(m.sections) {
		return nil, false
	}
	items := m.sections[path.Section].Items
	if path.Item < 0 || path.Item >= len(items) {
		return nil, false
	}
	return items[path.Item], true
}

// Insert places item at path, shifting later items in the section down.
// path.Item may equal the current item count (append).
func (m *Model) Insert(path IndexPath, item any) error {
	if path.Section < 0 || path.Section >= len(m.sections) {
		return fmt.Errorf("insert at %s: no such section", path)
	}
	items := m.sections[path.Section].Items
	if path.Item < 0 || path.Item > len(items) {
		return fmt.Errorf("insert at %s: index out of range (section has %d items)", path, len(items))
	}
	items = append(items, nil)
	copy(items[path.Item+1:], items[path.Item:])
	items[path.Item] = item
	m.sections[path.Section].Items = items
	return nil
}

// Remove deletes and returns the item at path.
func (m *Model) Remove(path IndexPath) (any, error) {
	item, ok := m.Item(path)
	if !ok {
		return nil, fmt.Errorf("remove at %s: no such item", path)
	}
	items := m.sections[path.Section].Items
	m.sections[path.Section].Items = append(items[:path.Item], items[path.Item+1:]...)
	return item, nil
}

// Move removes the item at from and inserts it at to. The destination path is
// interpreted against the model state after the removal, matching how display
// surfaces report drag destinations.
func (m *Model) Move(from, to IndexPath) (any, error) {
	item, err := m.Remove(from)
	if err != nil {
		return nil, fmt.Errorf("move %s -> %s: %w", from, to, err)
	}
	if err := m.Insert(to, item); err != nil {
		// Restore so a failed move leaves the model unchanged.
		_ = m.Insert(from, item)
		return nil, fmt.Errorf("move %s -> %s: %w", from, to, err)
	}
	return item, nil
}

// InsertSection places a new section at the given index.
func (m *Model) InsertSection(index int, section Section) error {
	if index < 0 || index > len(m.sections) {
		return fmt.Errorf("insert section %d: index out of range (model has %d sections)", index, len(m.sections))
	}
	m.sections = append(m.sections, Section{})
	copy(m.sections[index+1:], m.sections[index:])
	m.sections[index] = section
	return nil
}

// RemoveSection deletes the section at the given index.
func (m *Model) RemoveSection(index int) error {
	if index < 0 || index >= len(m.sections) {
		return fmt.Errorf("remove section %d: no such section", index)
	}
	m.sections = append(m.sections[:index], m.sections[index+1:]...)
	return nil
}

// Sections returns a copy of the section slice. Item slices are shared.
func (m *Model) Sections() []Section {
	out := make([]Section, len(m.sections))
	copy(out, m.sections)
	return out
}

// TypeMismatchError reports a failed typed projection of a model item.
type TypeMismatchError struct {
	// Path is the location of the offending item.
	Path IndexPath
	// Want is the name of the requested type.
	Want string
	// Got is the name of the actual dynamic type.
	Got string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("item at %s is %s, not %s", e.Path, e.Got, e.Want)
}

// ItemAs projects the item at path to type T. It returns a
// *TypeMismatchError when the stored item has a different dynamic type, and a
// plain error when the path does not exist.
func ItemAs[T any](m *Model, path IndexPath) (T, error) {
	var zero T
	item, ok := m.Item(path)
	if !ok {
		return zero, fmt.Errorf("no item at %s", path)
	}
	typed, ok := item.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Path: path,
			Want: fmt.Sprintf("%T", zero),
			Got:  fmt.Sprintf("%T", item),
		}
	}
	return typed, nil
}
