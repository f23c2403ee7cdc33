package clipwriter

// --- Mocks ---

type mockClipboard struct {
	imageErr  error
	textErr   error
	lastImage []byte
	lastText  string
	imageN    int
	textN     int
}

func (m *mockClipboard) WriteImage(pngData []byte) error {
	m.imageN++
	m.lastImage = pngData
	return m.imageErr
}

func (m *mockClipboard) WriteText(text string) error {
	m.textN++
	m.lastText = text
	return m.textErr
}
