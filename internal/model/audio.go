package model

const (
	// AudioFilename is the download name offered for synthesized audio.
	AudioFilename = "extracted_text.mp3"
	// AudioContentType is the MIME type of synthesized audio.
	AudioContentType = "audio/mpeg"
)

// AudioClip is MP3 audio synthesized from a transcript.
type AudioClip struct {
	Data        []byte
	Language    Language
	Provider    string
	Filename    string
	ContentType string
}

// NewAudioClip wraps MP3 bytes with the default download metadata.
func NewAudioClip(data []byte, lang Language, provider string) *AudioClip {
	return &AudioClip{
		Data:        data,
		Language:    lang,
		Provider:    provider,
		Filename:    AudioFilename,
		ContentType: AudioContentType,
	}
}
