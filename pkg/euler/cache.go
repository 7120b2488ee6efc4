package euler

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"unsafe"

	"github.com/azybler/rpprouter/pkg/rgraph"
	"github.com/azybler/rpprouter/pkg/rpperr"
)

// Result is what solvers hand to the cache: a solved Eulerian multigraph,
// its node coordinates (needed by the Geometry Exporter's node-coordinate
// fallback when an edge carries no polyline), and its extracted tour — the
// artifacts worth skipping recomputation for (§5, --cache).
type Result struct {
	Graph    *Multigraph
	NodeLat  []float64
	NodeLon  []float64
	EdgeIDs  []int64
	NodeSeq  []int32
}

const (
	magicBytes = "RPPCACHE"
	version    = uint32(1)
	maxEdges   = 50_000_000
)

type fileHeader struct {
	Magic      [8]byte
	Version    uint32
	Directed   uint32
	NumNodes   int32
	NumEdges   uint32
	TourLength uint32
}

// WriteCache serializes a solved Result to path, using a temp file and
// atomic rename so a crash mid-write never leaves a corrupt cache file
// behind, and a CRC32 trailer so a truncated or bit-rotted file is
// detected on load rather than silently misread.
func WriteCache(path string, res *Result) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return &rpperr.IoError{Path: path, Err: err}
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath)
	}()

	cw := &crc32Writer{w: f, hash: crc32.NewIEEE()}

	hdr := fileHeader{
		Version:    version,
		NumNodes:   res.Graph.numNodes,
		NumEdges:   uint32(len(res.Graph.Edges)),
		TourLength: uint32(len(res.EdgeIDs)),
	}
	copy(hdr.Magic[:], magicBytes)
	if res.Graph.Directed {
		hdr.Directed = 1
	}
	if err := binary.Write(cw, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	us := make([]int32, len(res.Graph.Edges))
	vs := make([]int32, len(res.Graph.Edges))
	weights := make([]float64, len(res.Graph.Edges))
	kinds := make([]uint32, len(res.Graph.Edges))
	for i, e := range res.Graph.Edges {
		us[i], vs[i], weights[i], kinds[i] = e.U, e.V, e.Weight, uint32(e.Kind)
	}
	if err := writeInt32Slice(cw, us); err != nil {
		return fmt.Errorf("write edge U: %w", err)
	}
	if err := writeInt32Slice(cw, vs); err != nil {
		return fmt.Errorf("write edge V: %w", err)
	}
	if err := writeFloat64Slice(cw, weights); err != nil {
		return fmt.Errorf("write edge weight: %w", err)
	}
	if err := writeUint32Slice(cw, kinds); err != nil {
		return fmt.Errorf("write edge kind: %w", err)
	}

	// Geometry is variable-length per edge; length-prefix each one.
	for i, e := range res.Graph.Edges {
		if err := writeGeometry(cw, e.Geometry); err != nil {
			return fmt.Errorf("write geometry %d: %w", i, err)
		}
	}

	nodeLat := make([]float64, len(res.NodeLat))
	copy(nodeLat, res.NodeLat)
	if err := writeFloat64Slice(cw, nodeLat); err != nil {
		return fmt.Errorf("write node lat: %w", err)
	}
	nodeLon := make([]float64, len(res.NodeLon))
	copy(nodeLon, res.NodeLon)
	if err := writeFloat64Slice(cw, nodeLon); err != nil {
		return fmt.Errorf("write node lon: %w", err)
	}

	edgeIDs := make([]int64, len(res.EdgeIDs))
	copy(edgeIDs, res.EdgeIDs)
	if err := writeInt64Slice(cw, edgeIDs); err != nil {
		return fmt.Errorf("write tour edge ids: %w", err)
	}
	nodeSeq := make([]int32, len(res.NodeSeq))
	copy(nodeSeq, res.NodeSeq)
	if err := writeInt32Slice(cw, nodeSeq); err != nil {
		return fmt.Errorf("write tour node sequence: %w", err)
	}

	checksum := cw.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}

	if err := f.Close(); err != nil {
		return &rpperr.IoError{Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return &rpperr.IoError{Path: path, Err: err}
	}
	return nil
}

// ReadCache deserializes a Result previously written by WriteCache.
func ReadCache(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &rpperr.IoError{Path: path, Err: err}
	}
	defer f.Close()

	cr := &crc32Reader{r: f, hash: crc32.NewIEEE()}

	var hdr fileHeader
	if err := binary.Read(cr, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported cache version: %d", hdr.Version)
	}
	if hdr.NumEdges > maxEdges {
		return nil, fmt.Errorf("edge count %d exceeds limit %d", hdr.NumEdges, maxEdges)
	}

	g := &Multigraph{Directed: hdr.Directed != 0, numNodes: hdr.NumNodes}

	us, err := readInt32Slice(cr, int(hdr.NumEdges))
	if err != nil {
		return nil, fmt.Errorf("read edge U: %w", err)
	}
	vs, err := readInt32Slice(cr, int(hdr.NumEdges))
	if err != nil {
		return nil, fmt.Errorf("read edge V: %w", err)
	}
	weights, err := readFloat64Slice(cr, int(hdr.NumEdges))
	if err != nil {
		return nil, fmt.Errorf("read edge weight: %w", err)
	}
	kinds, err := readUint32Slice(cr, int(hdr.NumEdges))
	if err != nil {
		return nil, fmt.Errorf("read edge kind: %w", err)
	}

	g.Edges = make([]Edge, hdr.NumEdges)
	for i := range g.Edges {
		geom, err := readGeometry(cr)
		if err != nil {
			return nil, fmt.Errorf("read geometry %d: %w", i, err)
		}
		g.Edges[i] = Edge{ID: int64(i), U: us[i], V: vs[i], Weight: weights[i], Kind: Kind(kinds[i]), Geometry: geom}
	}

	nodeLat, err := readFloat64Slice(cr, int(hdr.NumNodes))
	if err != nil {
		return nil, fmt.Errorf("read node lat: %w", err)
	}
	nodeLon, err := readFloat64Slice(cr, int(hdr.NumNodes))
	if err != nil {
		return nil, fmt.Errorf("read node lon: %w", err)
	}

	edgeIDs, err := readInt64Slice(cr, int(hdr.TourLength))
	if err != nil {
		return nil, fmt.Errorf("read tour edge ids: %w", err)
	}
	// A non-empty tour has one more node than edges; an empty tour has none.
	nodeSeqLen := 0
	if hdr.TourLength > 0 {
		nodeSeqLen = int(hdr.TourLength) + 1
	}
	nodeSeq, err := readInt32Slice(cr, nodeSeqLen)
	if err != nil {
		return nil, fmt.Errorf("read tour node sequence: %w", err)
	}

	expected := cr.hash.Sum32()
	var stored uint32
	if err := binary.Read(f, binary.LittleEndian, &stored); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if stored != expected {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", stored, expected)
	}

	return &Result{Graph: g, NodeLat: nodeLat, NodeLon: nodeLon, EdgeIDs: edgeIDs, NodeSeq: nodeSeq}, nil
}

func writeGeometry(w io.Writer, p *rgraph.Polyline) error {
	if p == nil {
		return binary.Write(w, binary.LittleEndian, uint32(0))
	}
	n := uint32(len(p.Lats))
	if err := binary.Write(w, binary.LittleEndian, n); err != nil {
		return err
	}
	if err := writeFloat64Slice(w, p.Lats); err != nil {
		return err
	}
	return writeFloat64Slice(w, p.Lons)
}

func readGeometry(r io.Reader) (*rgraph.Polyline, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	lats, err := readFloat64Slice(r, int(n))
	if err != nil {
		return nil, err
	}
	lons, err := readFloat64Slice(r, int(n))
	if err != nil {
		return nil, err
	}
	return &rgraph.Polyline{Lats: lats, Lons: lons}, nil
}

// Zero-copy slice I/O, mirroring the CSR graph cache's approach.

func writeUint32Slice(w io.Writer, s []uint32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func writeInt32Slice(w io.Writer, s []int32) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
	_, err := w.Write(b)
	return err
}

func writeInt64Slice(w io.Writer, s []int64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func writeFloat64Slice(w io.Writer, s []float64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func readUint32Slice(r io.Reader, n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]uint32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readInt32Slice(r io.Reader, n int) ([]int32, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]int32, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*4)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readInt64Slice(r io.Reader, n int) ([]int64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]int64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

func readFloat64Slice(r io.Reader, n int) ([]float64, error) {
	if n == 0 {
		return nil, nil
	}
	s := make([]float64, n)
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), n*8)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return s, nil
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
