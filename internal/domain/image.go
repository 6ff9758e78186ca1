package domain

// LeafImage is an uploaded crop-leaf photo awaiting classification.
type LeafImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// MaxImageBytes caps accepted uploads at 16 MiB.
const MaxImageBytes = 16 << 20
