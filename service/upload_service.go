package service

import (
	"log"

	"meetzzz-customizer/session"
)

// maxConcurrentDecodes bounds how many uploads are decoded at once across all sessions
const maxConcurrentDecodes = 4

// UploadService decodes artwork off the request path and hands it to the session
type UploadService struct {
	loader *ArtworkLoader
	slots  chan struct{}
}

// NewUploadService creates an UploadService
func NewUploadService(loader *ArtworkLoader) *UploadService {
	return &UploadService{
		loader: loader,
		slots:  make(chan struct{}, maxConcurrentDecodes),
	}
}

// Upload starts decoding imageData for s and returns the upload's sequence number.
// The channel receives whether the decoded image was installed, then closes.
// Decode failures and superseded uploads leave the session untouched.
func (u *UploadService) Upload(s *session.Session, fileName string, imageData []byte) (uint64, <-chan bool) {
	seq := s.BeginUpload()
	done := make(chan bool, 1)

	go func() {
		defer close(done)

		u.slots <- struct{}{}
		defer func() { <-u.slots }()

		// a newer upload may have arrived while this one waited for a slot
		if !s.IsLatestUpload(seq) {
			log.Printf("⏭️  Artwork %q (seq %d) superseded before decoding", fileName, seq)
			done <- false
			return
		}

		img, err := u.loader.Decode(imageData)
		if err != nil {
			log.Printf("⚠️  Artwork %q (seq %d) ignored: %v", fileName, seq, err)
			done <- false
			return
		}

		if !s.CompleteUpload(seq, img) {
			done <- false
			return
		}
		if err := s.Flush(); err != nil {
			log.Printf("❌ Failed to redraw after artwork upload: %v", err)
		}
		log.Printf("✓ Artwork %q installed (seq %d, %dx%d)", fileName, seq, img.Bounds().Dx(), img.Bounds().Dy())
		done <- true
	}()

	return seq, done
}
