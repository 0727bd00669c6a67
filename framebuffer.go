package texcopy

import "fmt"

// MaxColorAttachments is the number of color attachment points of a
// Framebuffer.
const MaxColorAttachments = 8

// ReadBufferNone disables reads from a framebuffer.
const ReadBufferNone = -1

// Source is the read side of a copy.
//
// ReadImage returns the image currently selected for reading, or an error
// wrapping ErrSourceUnavailable when nothing can be read.
type Source interface {
	ReadImage() (*Image, error)
}

// Framebuffer groups color attachments with a read buffer selector.
// The zero value has no attachments and reads color attachment 0, the same
// as NewFramebuffer.
type Framebuffer struct {
	attachments [MaxColorAttachments]*Image
	readBuffer  int
}

// NewFramebuffer returns a framebuffer without attachments that reads
// color attachment 0.
func NewFramebuffer() *Framebuffer {
	return &Framebuffer{}
}

// NewDefaultFramebuffer returns a framebuffer with a single width x height
// color attachment of the given format, selected for reading.
func NewDefaultFramebuffer(width, height int, format Format) (*Framebuffer, error) {
	img, err := NewImage(width, height, format)
	if err != nil {
		return nil, fmt.Errorf("texcopy: default framebuffer: %w", err)
	}
	fb := NewFramebuffer()
	fb.attachments[0] = img
	return fb, nil
}

func checkAttachment(index int) error {
	if index < 0 || index >= MaxColorAttachments {
		return fmt.Errorf("%w: %d", ErrInvalidAttachment, index)
	}
	return nil
}

// Attach binds img to color attachment index, replacing any previous image.
func (fb *Framebuffer) Attach(index int, img *Image) error {
	if err := checkAttachment(index); err != nil {
		return err
	}
	if img == nil {
		return ErrNilImage
	}
	fb.attachments[index] = img
	return nil
}

// Detach unbinds color attachment index. Out of range indices are ignored.
func (fb *Framebuffer) Detach(index int) {
	if checkAttachment(index) == nil {
		fb.attachments[index] = nil
	}
}

// Attachment returns the image bound at index, or nil.
func (fb *Framebuffer) Attachment(index int) *Image {
	if checkAttachment(index) != nil {
		return nil
	}
	return fb.attachments[index]
}

// SetReadBuffer selects the attachment copies read from. ReadBufferNone
// disables reading.
func (fb *Framebuffer) SetReadBuffer(index int) error {
	if index != ReadBufferNone {
		if err := checkAttachment(index); err != nil {
			return err
		}
	}
	fb.readBuffer = index
	return nil
}

// ReadBuffer returns the selected read attachment or ReadBufferNone.
func (fb *Framebuffer) ReadBuffer() int {
	return fb.readBuffer
}

// ReadImage returns the image bound at the read buffer.
func (fb *Framebuffer) ReadImage() (*Image, error) {
	if fb == nil {
		return nil, ErrSourceUnavailable
	}
	if fb.readBuffer == ReadBufferNone {
		return nil, fmt.Errorf("%w: read buffer is none", ErrSourceUnavailable)
	}
	img := fb.attachments[fb.readBuffer]
	if img == nil {
		return nil, fmt.Errorf("%w: nothing attached at color attachment %d", ErrSourceUnavailable, fb.readBuffer)
	}
	return img, nil
}

// Clear fills every attached image with c.
func (fb *Framebuffer) Clear(c Color) {
	for _, img := range fb.attachments {
		if img != nil {
			img.Fill(c)
		}
	}
}
