package export

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgpackExporter exports documents to MessagePack. Field names follow the
// JSON tags.
type MsgpackExporter struct{}

// NewMsgpackExporter creates a new MessagePack exporter
func NewMsgpackExporter() *MsgpackExporter {
	return &MsgpackExporter{}
}

// Export converts a document to MessagePack
func (e *MsgpackExporter) Export(doc *Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document is nil")
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode msgpack: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeMsgpack reads a document written by MsgpackExporter.
func DecodeMsgpack(data []byte) (*Document, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode msgpack: %w", err)
	}
	return &doc, nil
}

// GetFileExtension returns the file extension for MessagePack
func (e *MsgpackExporter) GetFileExtension() string {
	return ".msgpack"
}

// GetFormatName returns the format name
func (e *MsgpackExporter) GetFormatName() string {
	return "MessagePack"
}
