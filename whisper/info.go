package whisper

import "os"

// Info opens path just long enough to read its header and returns it.
// A missing file is not an error: it reports (nil, nil), matching the
// narrower "Header | null_if_missing" contract named in the operations
// surface. Any other failure, including a corrupt header, is returned
// as an error so real operational problems aren't swallowed.
func Info(path string, opts Options) (*Header, error) {
	w, err := Open(path, opts)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer w.Close()

	h := w.Header()
	return &h, nil
}
