package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/azybler/rpprouter/pkg/drpp"
	"github.com/azybler/rpprouter/pkg/euler"
	"github.com/azybler/rpprouter/pkg/geojsonexport"
	"github.com/azybler/rpprouter/pkg/geomexport"
	"github.com/azybler/rpprouter/pkg/gpx"
	"github.com/azybler/rpprouter/pkg/osmxml"
	"github.com/azybler/rpprouter/pkg/rgraph"
	"github.com/azybler/rpprouter/pkg/rpp"
	"github.com/azybler/rpprouter/pkg/rpperr"
	"github.com/azybler/rpprouter/pkg/snap"
)

func main() {
	osmPath := flag.String("osm", "data/area.osm", "OSM XML file")
	ignoreOneway := flag.Bool("ignore-oneway", false, "treat one-ways bidirectionally for driving-graph shortest paths")
	directedService := flag.Bool("directed-service", false, "use DRPP instead of RPP")
	diagPath := flag.String("drpp-diagnostics", "", "write a plaintext DRPP diagnostics report to this path")
	dropBlockers := flag.Bool("drop-drpp-blockers", false, "drop required arcs outside the largest SCC before solving")
	blockersGpxPath := flag.String("drpp-blockers-gpx", "", "emit dropped blocker arcs as a multi-track GPX file")
	startStr := flag.String("start", "", `snap to nearest node as tour origin, "lat,lon"`)
	endStr := flag.String("end", "", `snap to nearest node as tour terminus, "lat,lon"; requires --start`)
	gpxPath := flag.String("gpx", "tour.gpx", "write the solved tour as a GPX 1.1 file")
	geojsonPath := flag.String("geojson", "", "also emit the tour as a GeoJSON LineString feature")
	cachePath := flag.String("cache", "", "write the solved Eulerian multigraph + tour to a binary cache for rppserver")
	presetName := flag.String("required-preset", "default", `required-highway-class set: "default" or "with-service"`)
	flag.Parse()

	if *endStr != "" && *startStr == "" {
		fatal(&rpperr.InputError{Reason: "--end given without --start"})
	}

	preset, err := parsePreset(*presetName)
	if err != nil {
		fatal(err)
	}

	start := time.Now()

	log.Printf("Opening OSM file %s...", *osmPath)
	f, err := os.Open(*osmPath)
	if err != nil {
		fatal(&rpperr.IoError{Path: *osmPath, Err: err})
	}
	raw, err := osmxml.Load(context.Background(), f)
	f.Close()
	if err != nil {
		fatal(err)
	}
	log.Printf("Loaded %d nodes, %d edges", len(raw.Nodes), len(raw.Edges))

	log.Println("Building driving graph...")
	v, err := rgraph.Build(raw, rgraph.BuildOptions{IgnoreOneway: *ignoreOneway})
	if err != nil {
		fatal(err)
	}
	log.Printf("Graph: %d nodes, %d arcs", v.NumNodes(), len(v.D.Edges()))

	var required []rgraph.RequiredEdge
	if *directedService {
		required = rgraph.RequiredDirected(v, raw, preset)
	} else {
		required = rgraph.RequiredUndirected(v, raw, preset)
	}
	log.Printf("Required graph: %d edges", len(required))

	hasStart := *startStr != ""
	hasEnd := *endStr != ""
	var startLat, startLon, endLat, endLon float64
	if hasStart {
		startLat, startLon, err = parseLatLon(*startStr)
		if err != nil {
			fatal(&rpperr.InputError{Reason: fmt.Sprintf("malformed --start: %v", err)})
		}
	}
	if hasEnd {
		endLat, endLon, err = parseLatLon(*endStr)
		if err != nil {
			fatal(&rpperr.InputError{Reason: fmt.Sprintf("malformed --end: %v", err)})
		}
	}

	var E *euler.Multigraph
	var pf *drpp.Preflight
	var startNode, endNode int32
	var haveStartNode, haveEndNode bool

	solveOnce := func(opts rpp.Options, dopts drpp.Options) (*euler.Multigraph, *drpp.Preflight, error) {
		if *directedService {
			e, p, err := drpp.Solve(v, required, dopts)
			if err != nil && p != nil && *diagPath != "" {
				// A refused solve (e.g. MultiSCCRequired) still carries its
				// SCC analysis; write the report before the caller exits.
				if werr := writeDiagnostics(*diagPath, v, required, p); werr != nil {
					log.Printf("writing diagnostics: %v", werr)
				}
			}
			return e, p, err
		}
		e, err := rpp.Solve(v, required, opts)
		return e, nil, err
	}

	if hasStart {
		// Phase 1: solve without endpoint bias to obtain a provisional E,
		// then snap the requested coordinates against its (only) connected
		// component, per §4.G.
		E0, _, err := solveOnce(rpp.Options{}, drpp.Options{DropBlockers: *dropBlockers})
		if err != nil {
			fatal(err)
		}

		startRes, err := snap.Snap(v, E0, startLat, startLon)
		if err != nil {
			fatal(err)
		}
		printSnap("start", startLat, startLon, startRes)
		startNode, haveStartNode = startRes.NodeID, true

		endRes := startRes
		if hasEnd {
			endRes, err = snap.Snap(v, E0, endLat, endLon)
			if err != nil {
				fatal(err)
			}
			printSnap("end", endLat, endLon, endRes)
		}
		endNode, haveEndNode = endRes.NodeID, true

		E, pf, err = solveOnce(
			rpp.Options{Start: startNode, End: endNode, HasStart: true, HasEnd: true},
			drpp.Options{Start: startNode, End: endNode, HasStart: true, HasEnd: true, DropBlockers: *dropBlockers},
		)
		if err != nil {
			fatal(err)
		}
	} else {
		E, pf, err = solveOnce(rpp.Options{}, drpp.Options{DropBlockers: *dropBlockers})
		if err != nil {
			fatal(err)
		}
	}

	if *diagPath != "" {
		switch {
		case !*directedService:
			log.Println("--drpp-diagnostics has no effect without --directed-service; skipping")
		case pf == nil:
			log.Println("--drpp-diagnostics has no effect on an empty required set; skipping")
		default:
			if err := writeDiagnostics(*diagPath, v, required, pf); err != nil {
				fatal(err)
			}
		}
	}

	if *blockersGpxPath != "" && pf != nil && len(pf.Dropped) > 0 {
		if err := writeBlockersGpx(*blockersGpxPath, v, pf.Dropped); err != nil {
			fatal(err)
		}
		log.Printf("Wrote %d blocker arcs to %s", len(pf.Dropped), *blockersGpxPath)
	}

	edgeIDs, nodeSeq, err := euler.ExtractTour(E, startNode, haveStartNode, endNode, haveEndNode)
	if err != nil {
		fatal(err)
	}
	points := geomexport.Walk(v, E, edgeIDs, nodeSeq)
	log.Printf("Tour: %d edges, %d coordinates, total weight %.1fm", len(edgeIDs), len(points), E.TotalWeight())

	if err := gpx.Write(*gpxPath, "rpprouter tour", points); err != nil {
		fatal(err)
	}
	log.Printf("Wrote GPX tour to %s", *gpxPath)

	if *geojsonPath != "" {
		if err := geojsonexport.Write(*geojsonPath, points); err != nil {
			fatal(err)
		}
		log.Printf("Wrote GeoJSON tour to %s", *geojsonPath)
	}

	if *cachePath != "" {
		res := &euler.Result{
			Graph:   E,
			NodeLat: v.NodeLat,
			NodeLon: v.NodeLon,
			EdgeIDs: edgeIDs,
			NodeSeq: nodeSeq,
		}
		if err := euler.WriteCache(*cachePath, res); err != nil {
			fatal(err)
		}
		log.Printf("Wrote cache to %s", *cachePath)
	}

	log.Printf("Done in %s", time.Since(start).Round(time.Millisecond))
}

func parsePreset(name string) (rgraph.RequiredPreset, error) {
	switch name {
	case "default", "":
		return rgraph.DefaultRequiredPreset(), nil
	case "with-service":
		return rgraph.PresetWithService(), nil
	default:
		return nil, &rpperr.InputError{Reason: fmt.Sprintf("unknown --required-preset %q", name)}
	}
}

func parseLatLon(s string) (lat, lon float64, err error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"lat,lon\", got %q", s)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude: %w", err)
	}
	return lat, lon, nil
}

func printSnap(label string, reqLat, reqLon float64, res snap.Result) {
	fmt.Printf("Requested %s (lat, lon): (%v, %v); snapped %s (lat, lon): (%v, %v); node=%d; distance_m=%.2f; component=%s\n",
		label, reqLat, reqLon, label, res.Lat, res.Lon, res.NodeID, res.DistanceM, res.StrategyTag)
}

func writeDiagnostics(path string, v *rgraph.Views, required []rgraph.RequiredEdge, pf *drpp.Preflight) error {
	var sb strings.Builder

	requiredNodes := make(map[int32]bool)
	for _, e := range required {
		requiredNodes[e.U] = true
		requiredNodes[e.V] = true
	}

	fmt.Fprintln(&sb, "# DRPP diagnostics")
	fmt.Fprintf(&sb, "drive_nodes=%d\n", v.NumNodes())
	fmt.Fprintf(&sb, "drive_edges=%d\n", len(v.D.Edges()))
	fmt.Fprintf(&sb, "required_nodes=%d\n", len(requiredNodes))
	fmt.Fprintf(&sb, "required_edges=%d\n", len(required))
	fmt.Fprintf(&sb, "scc_count=%d\n", pf.SCCCount)
	fmt.Fprintf(&sb, "largest_scc_id=%d\n", pf.LargestSCCID)
	fmt.Fprintf(&sb, "largest_scc_size=%d\n", pf.LargestSCCSize)
	fmt.Fprintf(&sb, "required_nodes_outside_largest_scc=%d\n", len(pf.RequiredNodesOutsideLargestSCC))
	fmt.Fprintf(&sb, "required_edges_outside_largest_scc=%d\n", len(pf.RequiredEdgesOutsideLargestSCC))
	fmt.Fprintf(&sb, "required_edges_crossing_sccs=%d\n", len(pf.RequiredEdgesCrossingSCCs))
	fmt.Fprintln(&sb)

	fmt.Fprintln(&sb, "[required_nodes_outside_largest_scc]")
	for _, n := range pf.RequiredNodesOutsideLargestSCC {
		fmt.Fprintf(&sb, "%d,scc=%d\n", n.OSMID, n.SCC)
	}
	fmt.Fprintln(&sb)

	fmt.Fprintln(&sb, "[required_edges_outside_largest_scc]")
	for _, e := range pf.RequiredEdgesOutsideLargestSCC {
		fmt.Fprintf(&sb, "%d,%d,scc_u=%d,scc_v=%d\n", e.FromOSM, e.ToOSM, e.SCCFrom, e.SCCTo)
	}
	fmt.Fprintln(&sb)

	fmt.Fprintln(&sb, "[required_edges_crossing_sccs]")
	for _, e := range pf.RequiredEdgesCrossingSCCs {
		fmt.Fprintf(&sb, "%d,%d,scc_u=%d,scc_v=%d\n", e.FromOSM, e.ToOSM, e.SCCFrom, e.SCCTo)
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return &rpperr.IoError{Path: path, Err: err}
	}
	return nil
}

func writeBlockersGpx(path string, v *rgraph.Views, dropped []rgraph.RequiredEdge) error {
	names := make([]string, len(dropped))
	tracks := make([][]geomexport.Point, len(dropped))
	for i, e := range dropped {
		names[i] = fmt.Sprintf("blocker %d-%d", v.NodeOSMID[e.U], v.NodeOSMID[e.V])
		var pts []geomexport.Point
		if c, ok := v.S.Best(e.U, e.V); ok && c.Geometry.Len() > 0 {
			for k := range c.Geometry.Lats {
				pts = append(pts, geomexport.Point{Lat: c.Geometry.Lats[k], Lon: c.Geometry.Lons[k]})
			}
		} else {
			pts = []geomexport.Point{
				{Lat: v.NodeLat[e.U], Lon: v.NodeLon[e.U]},
				{Lat: v.NodeLat[e.V], Lon: v.NodeLon[e.V]},
			}
		}
		tracks[i] = pts
	}
	return gpx.WriteMultiTrack(path, names, tracks)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
