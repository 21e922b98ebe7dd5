package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/socialchef/chefvoice/internal/services/ai"
	"github.com/socialchef/chefvoice/internal/services/transcription"
	"github.com/socialchef/chefvoice/internal/session"
)

// multipartMemory is how much of a form is buffered in memory before the
// rest spills to temp files.
const multipartMemory = 8 << 20

// formOverhead covers the non-audio fields of a generate form.
const formOverhead = 1 << 20

type parsedForm struct {
	req       session.Request
	audioFile multipart.File
}

func (f *parsedForm) Close() {
	if f.audioFile != nil {
		f.audioFile.Close()
	}
}

// parseGenerateForm reads ingredients, dietary_preference and an optional
// audio file from a multipart or urlencoded form.
func (s *Server) parseGenerateForm(w http.ResponseWriter, r *http.Request) (*parsedForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxAudioBytes+formOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
	}

	f := &parsedForm{}
	f.req.Ingredients = r.FormValue("ingredients")

	pref, err := ai.ParseDietaryPreference(r.FormValue("dietary_preference"))
	if err != nil {
		return nil, err
	}
	f.req.Preference = pref

	if r.MultipartForm == nil {
		return f, nil
	}
	file, header, err := r.FormFile("audio")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return f, nil
	case err != nil:
		return nil, err
	case header.Filename == "" && header.Size == 0:
		// Browsers send an empty part when no file was chosen.
		file.Close()
		return f, nil
	}

	// Typed text wins, so a bad upload only matters when it will be used.
	if strings.TrimSpace(f.req.Ingredients) == "" {
		if err := transcription.ValidateFilename(header.Filename); err != nil {
			file.Close()
			return nil, err
		}
	}

	f.audioFile = file
	f.req.Audio = &transcription.Upload{
		Filename: header.Filename,
		Data:     file,
		Size:     header.Size,
	}
	return f, nil
}
