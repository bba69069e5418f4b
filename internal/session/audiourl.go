package session

import (
	"regexp"
	"strings"

	"github.com/vaarthai/vithai/internal/models"
)

const driveHost = "drive.google.com"

var (
	driveFilePath = regexp.MustCompile(`/file/d/([a-zA-Z0-9_-]+)`)
	driveIDParam  = regexp.MustCompile(`id=([a-zA-Z0-9_-]+)`)
)

// NormalizeAudioURL rewrites a Google Drive share link into its direct
// download form. Anything else, malformed links included, is returned as is.
func NormalizeAudioURL(raw string) string {
	if m := driveFilePath.FindStringSubmatch(raw); m != nil {
		return directDownload(m[1])
	}
	if strings.Contains(raw, driveHost) {
		if m := driveIDParam.FindStringSubmatch(raw); m != nil {
			return directDownload(m[1])
		}
	}
	return raw
}

func directDownload(id string) string {
	return "https://" + driveHost + "/uc?export=download&id=" + id
}

// NormalizeMessage applies NormalizeAudioURL to m and its sub-messages.
func NormalizeMessage(m models.Message) models.Message {
	m.AudioURL = NormalizeAudioURL(m.AudioURL)
	if len(m.SubMessages) > 0 {
		subs := make([]models.Message, len(m.SubMessages))
		for i, sub := range m.SubMessages {
			sub.AudioURL = NormalizeAudioURL(sub.AudioURL)
			subs[i] = sub
		}
		m.SubMessages = subs
	}
	return m
}
