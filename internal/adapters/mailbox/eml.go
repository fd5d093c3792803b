// Package mailbox loads raw .eml files into the domain message shape the
// triage pipeline consumes: a header map, a plain-text body, and the MIME
// part sequence.
package mailbox

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"os"
	"strings"

	"github.com/Lizz6780/phishscope-sentinel/internal/domain"
)

// FileSource implements ports.MessageSource for .eml files on disk.
type FileSource struct{}

// NewFileSource creates a new .eml file message source
func NewFileSource() *FileSource {
	return &FileSource{}
}

// Load reads and parses one .eml file. Any read or parse failure is
// returned as-is: a malformed message aborts its own pipeline run and
// nothing else.
func (s *FileSource) Load(path string) (*domain.EmailMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open message %s: %w", path, err)
	}
	defer f.Close()

	msg, err := mail.ReadMessage(f)
	if err != nil {
		return nil, fmt.Errorf("parse message %s: %w", path, err)
	}

	headers := make(map[string]string, len(msg.Header))
	for key, values := range msg.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	w := &walker{}
	if err := w.walk(textproto.MIMEHeader(msg.Header), msg.Body); err != nil {
		return nil, fmt.Errorf("parse message body %s: %w", path, err)
	}

	return &domain.EmailMessage{
		Headers: headers,
		Body:    strings.Join(w.textParts, "\n"),
		Parts:   w.parts,
	}, nil
}

// walker accumulates text/plain fragments and leaf MIME parts while
// descending nested multipart containers.
type walker struct {
	textParts []string
	parts     []domain.MessagePart
}

func (w *walker) walk(header textproto.MIMEHeader, body io.Reader) error {
	contentType := header.Get("Content-Type")
	if contentType == "" {
		contentType = "text/plain"
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		// Unparseable content types degrade to an opaque leaf part.
		mediaType = contentType
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		boundary := params["boundary"]
		if boundary == "" {
			return fmt.Errorf("multipart message without boundary")
		}
		mr := multipart.NewReader(body, boundary)
		for {
			part, err := mr.NextPart()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read multipart: %w", err)
			}
			if err := w.walk(part.Header, part); err != nil {
				return err
			}
		}
	}

	return w.leaf(header, mediaType, params, body)
}

func (w *walker) leaf(header textproto.MIMEHeader, mediaType string, typeParams map[string]string, body io.Reader) error {
	// A truncated or badly encoded part keeps whatever bytes did decode;
	// an undecodable attachment is still an attachment.
	payload, _ := io.ReadAll(decoder(header, body))

	disposition := ""
	filename := ""
	if cd := header.Get("Content-Disposition"); cd != "" {
		dispType, dispParams, err := mime.ParseMediaType(cd)
		if err == nil {
			disposition = dispType
			filename = dispParams["filename"]
		}
	}
	if filename == "" {
		filename = typeParams["name"]
	}

	if strings.EqualFold(mediaType, "text/plain") && !strings.EqualFold(disposition, "attachment") {
		w.textParts = append(w.textParts, string(payload))
	}

	w.parts = append(w.parts, domain.MessagePart{
		Filename:    filename,
		ContentType: mediaType,
		Disposition: disposition,
		Payload:     payload,
	})
	return nil
}

// decoder wraps the body reader according to Content-Transfer-Encoding.
func decoder(header textproto.MIMEHeader, body io.Reader) io.Reader {
	switch strings.ToLower(strings.TrimSpace(header.Get("Content-Transfer-Encoding"))) {
	case "base64":
		return base64.NewDecoder(base64.StdEncoding, body)
	case "quoted-printable":
		return quotedprintable.NewReader(body)
	default:
		return body
	}
}
