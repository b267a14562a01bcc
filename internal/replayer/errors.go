package replayer

import "errors"

// errUnexpectedEOF is returned when the typescript ends mid-marker, past
// the point the marker has committed to being real (i.e. past the `;`
// that opens an APC delay payload). The legacy path also returns it when
// the typescript ends before a timing line's byte count has been copied.
var errUnexpectedEOF = errors.New("replayer: unexpected end of file inside a delay marker")
