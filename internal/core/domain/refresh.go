package domain

// RefreshKind is the kind of change a refresh request describes.
type RefreshKind uint8

const (
	// RefreshWholesale drops everything derived from the module.
	RefreshWholesale RefreshKind = iota
	// RefreshModification reports that the content behind some types changed.
	RefreshModification
	// RefreshCreation reports that some types were created.
	RefreshCreation
	// RefreshDeletion reports that some types were deleted.
	RefreshDeletion
)

// String returns the lowercase name of the kind.
func (k RefreshKind) String() string {
	switch k {
	case RefreshWholesale:
		return "wholesale"
	case RefreshModification:
		return "modification"
	case RefreshCreation:
		return "creation"
	case RefreshDeletion:
		return "deletion"
	default:
		return "unknown"
	}
}

// RefreshRequest is a batch of type changes delivered by the change-event source.
type RefreshRequest struct {
	// Kind is the change that happened.
	Kind RefreshKind
	// Module scopes the request. A nil module applies to every listener.
	Module *Module
	// File is the resource file the types came from, if any.
	File File
	// Types are the fully-qualified names affected, processed in order.
	Types []string
}
