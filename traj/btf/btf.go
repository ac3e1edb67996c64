package btf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	sro "github.com/rmera/gosro"
)

const (
	lzwLitwidth int = 8
)

//Write!
type BtfW struct {
	f         *os.File
	h         io.WriteCloser
	b         *bufio.Writer
	natoms    int
	filename  string
	writeable bool
}

// Close flushes and closes the trajectory. It can not be written after this call.
func (B *BtfW) Close() error {
	if B == nil || !B.writeable {
		return nil
	}
	B.writeable = false
	err := B.b.Flush()
	if err2 := B.h.Close(); err == nil {
		err = err2
	}
	if err2 := B.f.Close(); err == nil {
		err = err2
	}
	if err != nil {
		return &Error{"Can't close trajectory: " + err.Error(), B.filename, []string{"Close"}, true}
	}
	return nil
}

// Len returns the number of atoms per frame.
func (B *BtfW) Len() int {
	return B.natoms
}

// WNext writes the frame f to the trajectory.
func (B *BtfW) WNext(f *sro.Frame) error {
	if !B.writeable {
		return &Error{TrajUnIniWrite, B.filename, []string{"WNext"}, true}
	}
	if f == nil {
		return &Error{NilFrame, B.filename, []string{"WNext"}, true}
	}
	if len(f.Types) != B.natoms {
		return &Error{fmt.Sprintf("%d atom types given, but %d expected", len(f.Types), B.natoms), B.filename, []string{"WNext"}, true}
	}
	for i, v := range f.Types {
		if v <= 0 {
			return &Error{fmt.Sprintf("atom %d has a non-positive species label %d", i, v), B.filename, []string{"WNext"}, true}
		}
	}
	for i, v := range f.Bonds {
		if v.A < 0 || v.B < 0 || v.A >= B.natoms || v.B >= B.natoms {
			return &Error{fmt.Sprintf("bond %d (%d, %d) out of range", i, v.A, v.B), B.filename, []string{"WNext"}, true}
		}
	}
	fmt.Fprintf(B.b, "> %s %d\n", strconv.FormatFloat(f.Time, 'g', -1, 64), len(f.Bonds))
	for i, v := range f.Types {
		if i > 0 {
			B.b.WriteByte(' ')
		}
		B.b.WriteString(strconv.Itoa(v))
	}
	B.b.WriteByte('\n')
	for _, v := range f.Bonds {
		fmt.Fprintf(B.b, "%d %d\n", v.A, v.B)
	}
	_, err := B.b.WriteString("*\n")
	if err != nil {
		return &Error{"Can't write frame: " + err.Error(), B.filename, []string{"WNext"}, true}
	}
	return nil
}

// NewWriter creates a trajectory for writing, with natoms atoms per frame. The keys and
// values in header, if not nil, are written in the header, sorted by key. compressionLevel
// is used for the gzip and deflate formats.
func NewWriter(name string, natoms int, header map[string]string, compressionLevel ...int) (*BtfW, error) {
	var level int = flate.BestCompression
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	if natoms <= 0 {
		return nil, &Error{fmt.Sprintf("Invalid number of atoms: %d", natoms), name, []string{"NewWriter"}, true}
	}
	B := new(BtfW)
	var err error
	B.f, err = os.Create(name)
	if err != nil {
		return nil, &Error{UnableToOpen + " " + err.Error(), name, []string{"NewWriter"}, true}
	}
	zwriter := func(a io.Writer) (io.WriteCloser, error) {
		r, err := flate.NewWriter(a, level)
		return r, err
	}
	gzipwriter := func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, level) }
	zstdwriter := func(a io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	}
	var AnyNewWriter func(io.Writer) (io.WriteCloser, error)
	switch format(name) {
	case 'l':
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		AnyNewWriter = gzipwriter
	case 'r':
		AnyNewWriter = zwriter
	default:
		AnyNewWriter = zstdwriter
	}
	B.h, err = AnyNewWriter(B.f)
	if err != nil {
		B.f.Close()
		return nil, &Error{"Can't start compression " + err.Error(), name, []string{"NewWriter"}, true}
	}
	B.b = bufio.NewWriter(B.h)
	B.natoms = natoms
	B.filename = name
	B.writeable = true
	keys := make([]string, 0, len(header))
	for k := range header {
		if strings.ContainsAny(k, "=\n") || strings.HasPrefix(k, "*") || strings.Contains(header[k], "\n") {
			B.Close()
			return nil, &Error{fmt.Sprintf("Invalid header entry %q", k), name, []string{"NewWriter"}, true}
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(B.b, "%s=%s\n", k, header[k])
	}
	fmt.Fprintf(B.b, "** %d\n", B.natoms)
	return B, nil
}

// format returns the letter that determines the compression of the file name.
func format(name string) byte {
	if name == "" {
		return 's'
	}
	return strings.ToLower(name)[len(name)-1]
}

//Read!
type BtfR struct {
	f        *os.File
	lzw      io.ReadCloser
	h        *bufio.Reader
	natoms   int
	filename string
	readable bool
	frame    int
}

// Also, why couldn't *zstd.Decoder implement io.ReadCloser? :-(
type stdql struct {
	closeql func()
	*zstd.Decoder
}

// Close Closes the object. It can not be used after this call
func (s stdql) Close() error {
	s.closeql()
	return nil
}

// New opens a BTF trajectory for reading, and returns a pointer
// to the handle, a map with the header (empty, if the file has no header)
// and error or nil.
func New(name string) (*BtfR, map[string]string, error) {
	B := new(BtfR)
	B.natoms = -1
	m := make(map[string]string)
	var err error
	B.filename = name
	B.f, err = os.Open(B.filename)
	if err != nil {
		return nil, nil, &Error{UnableToOpen + " " + err.Error(), B.filename, []string{"New"}, true}
	}
	var AnyNewReader func(io.Reader) (io.ReadCloser, error)
	zreader := func(a io.Reader) (io.ReadCloser, error) {
		r := flate.NewReader(a)
		return r, nil
	}
	zstdreader := func(a io.Reader) (io.ReadCloser, error) {
		r, err := zstd.NewReader(a)
		if err != nil {
			return nil, err
		}
		return &stdql{r.Close, r}, nil
	}
	gzreader := func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	switch format(name) {
	case 'l':
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil }
	case 'z':
		AnyNewReader = gzreader
	case 'r':
		AnyNewReader = zreader
	default:
		AnyNewReader = zstdreader
	}
	B.lzw, err = AnyNewReader(bufio.NewReader(B.f))
	if err != nil {
		B.f.Close()
		return nil, nil, &Error{"Can't read header " + err.Error(), B.filename, []string{"New"}, true}
	}
	B.h = bufio.NewReader(B.lzw)
	for {
		str, err := B.h.ReadString('\n')
		if err != nil {
			B.close()
			return nil, nil, &Error{"Can't read header " + err.Error(), B.filename, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			nat := strings.Fields(str)
			if len(nat) < 2 {
				B.close()
				return nil, nil, &Error{fmt.Sprintf("Can't read atom number from '%s'", str), B.filename, []string{"New"}, true}
			}
			B.natoms, err = strconv.Atoi(nat[1])
			if err != nil || B.natoms <= 0 {
				B.close()
				return nil, nil, &Error{fmt.Sprintf("Can't read atom number from '%s'", nat[1]), B.filename, []string{"New"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			B.close()
			return nil, nil, &Error{"Malformed header line: " + str, B.filename, []string{"New"}, true}
		}
		m[kv[0]] = kv[1]
	}
	B.readable = true
	return B, m, nil
}

// Readable returns true if the handle is readable (if it is possible to call Next on it)
func (B *BtfR) Readable() bool {
	return B.readable
}

// Len returns the number of atoms in each frame of the trajectory.
func (B *BtfR) Len() int {
	return B.natoms
}

// readLine reads a line, without the final "\n". io.EOF is returned only if nothing was read.
func (B *BtfR) readLine() (string, error) {
	s, err := B.h.ReadString('\n')
	if err == io.EOF && s != "" {
		err = nil
	}
	return strings.TrimSuffix(s, "\n"), err
}

func (B *BtfR) critical(msg, caller string) error {
	return &Error{fmt.Sprintf("frame %d: %s", B.frame, msg), B.filename, []string{caller}, true}
}

// Next reads the next frame of the trajectory and returns it. If the trajectory
// has ended, it returns nil and an error that implements sro.LastFrameError. The
// handle is closed in that case.
func (B *BtfR) Next() (*sro.Frame, error) {
	if !B.readable {
		return nil, &Error{TrajUnIniRead, B.filename, []string{"Next"}, true}
	}
	s, err := B.readLine()
	if err == io.EOF {
		B.Close()
		return nil, newlastFrameError(B.filename, "Next")
	}
	if err != nil {
		return nil, B.critical(ReadError+" "+err.Error(), "Next")
	}
	fields := strings.Fields(s)
	if len(fields) != 3 || fields[0] != ">" {
		return nil, B.critical(WrongFormat+": expected frame header, got "+s, "Next")
	}
	f := new(sro.Frame)
	f.Time, err = strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return nil, B.critical("Can't read frame time: "+err.Error(), "Next")
	}
	nbonds, err := strconv.Atoi(fields[2])
	if err != nil || nbonds < 0 {
		return nil, B.critical("Can't read the number of bonds from "+fields[2], "Next")
	}
	s, err = B.readLine()
	if err != nil {
		return nil, B.critical("Can't read atom types: "+err.Error(), "Next")
	}
	fields = strings.Fields(s)
	if len(fields) != B.natoms {
		return nil, B.critical(fmt.Sprintf("%d atom types in frame, but %d expected", len(fields), B.natoms), "Next")
	}
	f.Types = make([]int, B.natoms)
	for i, v := range fields {
		f.Types[i], err = strconv.Atoi(v)
		if err != nil || f.Types[i] <= 0 {
			return nil, B.critical(fmt.Sprintf("Invalid species label %q for atom %d", v, i), "Next")
		}
	}
	//nbonds comes from the file, so it only bounds the preallocation.
	f.Bonds = make([]sro.Bond, 0, min(nbonds, maxBondPrealloc))
	for i := 0; i < nbonds; i++ {
		s, err = B.readLine()
		if err != nil {
			return nil, B.critical(fmt.Sprintf("Can't read bond %d: %s", i, err.Error()), "Next")
		}
		fields = strings.Fields(s)
		if len(fields) != 2 {
			return nil, B.critical(fmt.Sprintf("Ill formated bond line %d: %s", i, s), "Next")
		}
		a, err1 := strconv.Atoi(fields[0])
		b, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil {
			return nil, B.critical(fmt.Sprintf("Can't parse bond %d: %s", i, s), "Next")
		}
		f.Bonds = append(f.Bonds, sro.Bond{A: a, B: b})
	}
	s, err = B.readLine()
	if err != nil || !strings.HasPrefix(s, "*") {
		return nil, B.critical("Can't read the frame termination mark", "Next")
	}
	B.frame++
	return f, nil
}

// Close closes the object, and marks it as unreadable
func (B *BtfR) Close() {
	if !B.readable {
		return
	}
	B.close()
}

func (B *BtfR) close() {
	B.lzw.Close()
	B.f.Close()
	B.readable = false
}

// Trajectory is a BTF trajectory read into memory. It implements sro.FrameProvider.
type Trajectory struct {
	frames   []*sro.Frame
	header   map[string]string
	natoms   int
	filename string
}

// Load reads all the frames in the BTF file name. The file is closed before returning,
// whether an error happened or not.
func Load(name string) (*Trajectory, error) {
	B, header, err := New(name)
	if err != nil {
		return nil, errDecorate(err, "Load")
	}
	defer B.Close()
	T := &Trajectory{header: header, natoms: B.Len(), filename: name}
	for {
		f, err := B.Next()
		if err != nil {
			if _, ok := err.(sro.LastFrameError); ok {
				break
			}
			return nil, errDecorate(err, "Load")
		}
		T.frames = append(T.frames, f)
	}
	return T, nil
}

// Len returns the number of frames in the trajectory.
func (T *Trajectory) Len() int {
	return len(T.frames)
}

// NAtoms returns the number of atoms per frame.
func (T *Trajectory) NAtoms() int {
	return T.natoms
}

// Frame returns the frame i. The frame is shared, and should not be modified.
func (T *Trajectory) Frame(i int) (*sro.Frame, error) {
	if i < 0 || i >= len(T.frames) {
		return nil, &Error{fmt.Sprintf("frame %d out of range [0, %d)", i, len(T.frames)), T.filename, []string{"Frame"}, false}
	}
	return T.frames[i], nil
}

// Header returns a copy of the header of the trajectory file.
func (T *Trajectory) Header() map[string]string {
	ret := make(map[string]string, len(T.header))
	for k, v := range T.header {
		ret[k] = v
	}
	return ret
}

// TypeMap returns the species names stored under the "typemap" key of the header,
// or an empty map if there is no such key.
func (T *Trajectory) TypeMap() (sro.TypeMap, error) {
	return sro.ParseTypeMap(T.header["typemap"])
}

//Errors

// errDecorate is a helper function that asserts that the error is
// implements sro.Error and decorates the error with the caller's name before returning it.
// Errors not implementing sro.Error are returned unchanged.
func errDecorate(err error, caller string) error {
	if err2, ok := err.(sro.Error); ok {
		err2.Decorate(caller)
	}
	return err
}

// Error is the general structure for BTF trajectory errors. It fullfills sro.Error and sro.TrajError
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err *Error) Error() string {
	return fmt.Sprintf("btf file %s error: %s", err.filename, err.message)
}

// Decorate Adds new information to the error
func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// Filename returns the file to which the failing trajectory was associated
func (err *Error) FileName() string { return err.filename }

// Format returns the format of the file (always "btf") associated to the error
func (err *Error) Format() string { return "btf" }

// Critical returns true if the error is critical, false otherwise
func (err *Error) Critical() bool { return err.critical }

const (
	TrajUnIniRead  = "Traj object uninitialized to read"
	TrajUnIniWrite = "Traj object uninitialized to write"
	ReadError      = "Error reading frame"
	UnableToOpen   = "Unable to open file"
	NilFrame       = "Given nil frame"
	WrongFormat    = "Wrong format in the BTF file or frame"
)

// maxBondPrealloc is the largest bond list allocated before the bonds are read.
const maxBondPrealloc = 1 << 16

// lastFrameError implements sro.LastFrameError
type lastFrameError struct {
	deco     []string
	fileName string
}

// NormalLastFrameTermination does nothing
func (E *lastFrameError) NormalLastFrameTermination() {}

func (E *lastFrameError) FileName() string { return E.fileName }

func (E *lastFrameError) Error() string { return "EOF" }

func (E *lastFrameError) Critical() bool { return false }

func (E *lastFrameError) Format() string { return "btf" }

func (E *lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newlastFrameError(filename string, caller string) *lastFrameError {
	e := new(lastFrameError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
