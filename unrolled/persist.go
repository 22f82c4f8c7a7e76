package unrolled

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/arnewolf/ravel/kernel"
)

const (
	magic          = uint32(0x5241564C) // "RAVL"
	formatVersion  = uint16(1)
)

// Save writes vm's full state — both compiled kernels and the current
// buffer contents — to w in the RAVL binary format: a magic/version
// header, the feed/trace/train kernels, the buffer snapshot, and the
// input/output/target/rate slot lists.
func (vm *VM) Save(w io.Writer) error {
	var buf bytes.Buffer

	if err := binary.Write(&buf, binary.LittleEndian, magic); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, formatVersion); err != nil {
		return err
	}

	for _, s := range []*kernel.Sentence{vm.feed, vm.trace, vm.train} {
		if err := writeSentence(&buf, s); err != nil {
			return err
		}
	}

	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(vm.buf))); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, vm.buf); err != nil {
		return err
	}

	for _, idx := range [][]int{vm.inputs, vm.outputs, vm.targets} {
		if err := writeIndexList(&buf, idx); err != nil {
			return err
		}
	}

	if err := binary.Write(&buf, binary.LittleEndian, vm.hasRate); err != nil {
		return err
	}
	if err := binary.Write(&buf, binary.LittleEndian, int32(vm.rate)); err != nil {
		return err
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// Load reads a VM previously written by Save.
func Load(r io.Reader) (*VM, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	br := bytes.NewReader(data)

	var gotMagic uint32
	if err := binary.Read(br, binary.LittleEndian, &gotMagic); err != nil {
		return nil, err
	}
	if gotMagic != magic {
		return nil, fmt.Errorf("unrolled: bad magic %x", gotMagic)
	}

	var version uint16
	if err := binary.Read(br, binary.LittleEndian, &version); err != nil {
		return nil, err
	}
	if version != formatVersion {
		return nil, fmt.Errorf("unrolled: unsupported format version %d", version)
	}

	vm := &VM{}
	vm.feed, err = readSentence(br)
	if err != nil {
		return nil, err
	}
	vm.trace, err = readSentence(br)
	if err != nil {
		return nil, err
	}
	vm.train, err = readSentence(br)
	if err != nil {
		return nil, err
	}

	var bufLen uint32
	if err := binary.Read(br, binary.LittleEndian, &bufLen); err != nil {
		return nil, err
	}
	vm.buf = make([]float64, bufLen)
	if err := binary.Read(br, binary.LittleEndian, vm.buf); err != nil {
		return nil, err
	}

	vm.inputs, err = readIndexList(br)
	if err != nil {
		return nil, err
	}
	vm.outputs, err = readIndexList(br)
	if err != nil {
		return nil, err
	}
	vm.targets, err = readIndexList(br)
	if err != nil {
		return nil, err
	}

	if err := binary.Read(br, binary.LittleEndian, &vm.hasRate); err != nil {
		return nil, err
	}
	var rate int32
	if err := binary.Read(br, binary.LittleEndian, &rate); err != nil {
		return nil, err
	}
	vm.rate = int(rate)

	return vm, nil
}

func writeIndexList(buf *bytes.Buffer, idx []int) error {
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(idx))); err != nil {
		return err
	}
	for _, v := range idx {
		if err := binary.Write(buf, binary.LittleEndian, int32(v)); err != nil {
			return err
		}
	}
	return nil
}

func readIndexList(r io.Reader) ([]int, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i := range out {
		var v int32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, err
		}
		out[i] = int(v)
	}
	return out, nil
}

func writeSentence(buf *bytes.Buffer, s *kernel.Sentence) error {
	stmts := s.Statements()
	if err := binary.Write(buf, binary.LittleEndian, uint32(len(stmts))); err != nil {
		return err
	}
	for _, st := range stmts {
		if err := binary.Write(buf, binary.LittleEndian, uint8(st.Op)); err != nil {
			return err
		}
		for _, v := range []int{st.Dst, st.A, st.B, st.C} {
			if err := binary.Write(buf, binary.LittleEndian, int32(v)); err != nil {
				return err
			}
		}
		if err := binary.Write(buf, binary.LittleEndian, st.Lit); err != nil {
			return err
		}
	}
	return nil
}

func readSentence(r io.Reader) (*kernel.Sentence, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	sent := &kernel.Sentence{}
	for i := uint32(0); i < n; i++ {
		var op uint8
		if err := binary.Read(r, binary.LittleEndian, &op); err != nil {
			return nil, err
		}
		var dst, a, b, c int32
		for _, p := range []*int32{&dst, &a, &b, &c} {
			if err := binary.Read(r, binary.LittleEndian, p); err != nil {
				return nil, err
			}
		}
		var lit float64
		if err := binary.Read(r, binary.LittleEndian, &lit); err != nil {
			return nil, err
		}
		sent.Emit(kernel.Statement{
			Op:  kernel.Op(op),
			Dst: int(dst), A: int(a), B: int(b), C: int(c),
			Lit: lit,
		})
	}
	return sent, nil
}
