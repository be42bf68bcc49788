package groups

import (
	"fmt"

	syntax "github.com/cisco/go-tls-syntax"
)

///
/// Write Stream
///

type WriteStream struct {
	buffer []byte
}

func NewWriteStream() *WriteStream {
	return &WriteStream{}
}

func (s *WriteStream) Data() []byte {
	return s.buffer
}

func (s *WriteStream) Write(val interface{}) error {
	enc, err := syntax.Marshal(val)
	if err != nil {
		return err
	}
	s.buffer = append(s.buffer, enc...)
	return nil
}

func (s *WriteStream) WriteAll(vals ...interface{}) error {
	for _, val := range vals {
		err := s.Write(val)
		if err != nil {
			return err
		}
	}
	return nil
}

///
/// ReadStream
///

type ReadStream struct {
	buffer []byte
	cursor int
}

func NewReadStream(data []byte) *ReadStream {
	return &ReadStream{data, 0}
}

func (s *ReadStream) Read(val interface{}) (int, error) {
	read, err := syntax.Unmarshal(s.buffer[s.cursor:], val)
	if err != nil {
		return 0, err
	}

	s.cursor += read
	return read, nil
}

func (s *ReadStream) ReadAll(vals ...interface{}) (int, error) {
	totalRead := 0
	for _, val := range vals {
		read, err := s.Read(val)
		if err != nil {
			return 0, err
		}
		totalRead += read
	}
	return totalRead, nil
}

func (s *ReadStream) Consumed() int {
	return s.cursor
}

///
/// Group and change encoding
///

func MarshalGroupChange(change DecryptedGroupChange) ([]byte, error) {
	data, err := syntax.Marshal(change)
	if err != nil {
		return nil, fmt.Errorf("groups.codec: change marshal failure %v", err)
	}
	return data, nil
}

func UnmarshalGroupChange(data []byte) (DecryptedGroupChange, error) {
	var change DecryptedGroupChange
	if err := unmarshalExact(data, &change); err != nil {
		return DecryptedGroupChange{}, fmt.Errorf("groups.codec: change unmarshal failure %w", err)
	}
	return change, nil
}

func MarshalGroup(group DecryptedGroup) ([]byte, error) {
	data, err := syntax.Marshal(group)
	if err != nil {
		return nil, fmt.Errorf("groups.codec: group marshal failure %v", err)
	}
	return data, nil
}

func UnmarshalGroup(data []byte) (DecryptedGroup, error) {
	var group DecryptedGroup
	if err := unmarshalExact(data, &group); err != nil {
		return DecryptedGroup{}, fmt.Errorf("groups.codec: group unmarshal failure %w", err)
	}
	return group, nil
}

func unmarshalExact(data []byte, val interface{}) error {
	read, err := syntax.Unmarshal(data, val)
	if err != nil {
		return err
	}
	if read != len(data) {
		return fmt.Errorf("%d trailing bytes", len(data)-read)
	}
	return nil
}

const changeLogVersion uint8 = 1

// struct {
//     uint8 version;
//     uint32 count;
// } ChangeLogHeader;
//
// The header is followed by count DecryptedGroupChange values.
type changeLogHeader struct {
	Version uint8
	Count   uint32
}

// EncodeChangeLog serializes a batch of changes as fetched from the server.
func EncodeChangeLog(changes []DecryptedGroupChange) ([]byte, error) {
	vals := make([]interface{}, 0, len(changes)+1)
	vals = append(vals, changeLogHeader{Version: changeLogVersion, Count: uint32(len(changes))})
	for _, change := range changes {
		vals = append(vals, change)
	}

	w := NewWriteStream()
	if err := w.WriteAll(vals...); err != nil {
		return nil, fmt.Errorf("groups.codec: change log marshal failure %v", err)
	}
	return w.Data(), nil
}

func DecodeChangeLog(data []byte) ([]DecryptedGroupChange, error) {
	var header changeLogHeader
	r := NewReadStream(data)
	if _, err := r.ReadAll(&header); err != nil {
		return nil, fmt.Errorf("groups.codec: change log header unmarshal failure %w", err)
	}
	if header.Version != changeLogVersion {
		return nil, fmt.Errorf("groups.codec: unsupported change log version %d", header.Version)
	}

	var changes []DecryptedGroupChange
	for i := uint32(0); i < header.Count; i++ {
		var change DecryptedGroupChange
		if _, err := r.Read(&change); err != nil {
			return nil, fmt.Errorf("groups.codec: change %d unmarshal failure %w", i, err)
		}
		changes = append(changes, change)
	}

	if r.Consumed() != len(data) {
		return nil, fmt.Errorf("groups.codec: change log has %d trailing bytes", len(data)-r.Consumed())
	}
	return changes, nil
}
