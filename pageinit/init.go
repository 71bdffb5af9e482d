package pageinit

// Initialize prepares doc for interaction and must be called once by the
// hosting application after the page content is built. It replaces icon
// placeholders using icons (skipped when nil) and binds spinner buttons.
func Initialize(doc *Document, icons IconRenderer) error {
	if !doc.markInitialized() {
		return ErrAlreadyInitialized
	}
	if icons != nil {
		icons.Replace(doc)
	}
	BindSpinners(doc)
	return nil
}
