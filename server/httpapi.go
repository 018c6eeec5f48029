package server

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/youzan/ZanGeoIndex/common"
	"github.com/youzan/ZanGeoIndex/geohash"
	"github.com/youzan/ZanGeoIndex/geometry"
	"github.com/youzan/ZanGeoIndex/index"
	"github.com/youzan/ZanGeoIndex/store"
)

var sLog = common.NewLevelLogger(common.LOG_INFO, common.NewDefaultLogger("server"))

func SetLogger(level int32, logger common.Logger) {
	sLog.SetLevel(level)
	sLog.Logger = logger
}

// Server exposes the codec and one geographic index over HTTP.
type Server struct {
	conf   *ServerConfig
	kv     store.KVStore
	idx    *index.Index
	router *httprouter.Router
	hsrv   *http.Server
}

func NewServer(conf *ServerConfig) (*Server, error) {
	var kv store.KVStore
	var err error
	switch conf.Engine {
	case "pebble":
		kv, err = store.NewPebbleStore(conf.DataDir)
	default:
		kv, err = store.NewMemStore()
	}
	if err != nil {
		return nil, err
	}

	var compressor index.Compressor
	if conf.Compress {
		compressor = index.SnappyCompressor{}
	}
	synchronizer := &index.ThreadSynchronizer{}
	idx, err := index.Open(kv, synchronizer)
	if err == index.ErrNotInitialized {
		idx, err = index.Init(kv, conf.Precision, compressor, synchronizer)
	}
	if err != nil {
		kv.Close()
		return nil, err
	}

	s := &Server{
		conf: conf,
		kv:   kv,
		idx:  idx,
	}
	s.initHttpHandler()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

func (s *Server) Start() {
	s.hsrv = &http.Server{Addr: s.conf.HTTPAddress, Handler: s}
	go func() {
		sLog.Infof("http server listening on %v", s.conf.HTTPAddress)
		err := s.hsrv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			sLog.Errorf("http server error: %v", err)
		}
	}()
}

func (s *Server) Stop() {
	if s.hsrv != nil {
		s.hsrv.Close()
	}
	s.kv.Close()
	sLog.Infof("server stopped")
}

func (s *Server) initHttpHandler() {
	router := httprouter.New()
	router.Handle("GET", "/ping", s.api("ping", s.doPing))
	router.Handle("GET", "/v1/encode", s.api("encode", s.doEncode))
	router.Handle("GET", "/v1/decode", s.api("decode", s.doDecode))
	router.Handle("GET", "/v1/neighbors", s.api("neighbors", s.doNeighbors))
	router.Handle("GET", "/v1/boxes", s.api("boxes", s.doBoxes))
	router.Handle("GET", "/v1/index/box", s.api("index_box", s.doIndexBox))
	router.Handle("POST", "/v1/index/append", s.api("index_append", s.doIndexAppend))
	router.Handler("GET", "/metrics", promhttp.Handler())
	s.router = router
}

// apiHandler computes the response body of one endpoint: a string is
// written as-is, anything else is marshalled to JSON.
type apiHandler func(req *http.Request, ps httprouter.Params) (interface{}, error)

type httpErr struct {
	Code int
	Text string
}

func (e httpErr) Error() string {
	return e.Text
}

func badRequest(err error) httpErr {
	return httpErr{Code: http.StatusBadRequest, Text: err.Error()}
}

// api renders a handler's result, logs the call and feeds the request
// metrics. There is one response shape for the whole server, so the
// rendering lives here rather than behind per-endpoint decorators.
func (s *Server) api(name string, f apiHandler) httprouter.Handle {
	return func(w http.ResponseWriter, req *http.Request, ps httprouter.Params) {
		start := time.Now()
		data, err := f(req, ps)

		code := http.StatusOK
		var response []byte
		if err != nil {
			he, ok := err.(httpErr)
			if !ok {
				he = httpErr{Code: http.StatusInternalServerError, Text: err.Error()}
			}
			code = he.Code
			response = []byte(fmt.Sprintf(`{"message":"%s"}`, he.Text))
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		} else if text, ok := data.(string); ok {
			response = []byte(text)
		} else {
			response, err = json.Marshal(data)
			if err != nil {
				code = http.StatusInternalServerError
				response = []byte(fmt.Sprintf(`{"message":"%s"}`, err.Error()))
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		}
		w.WriteHeader(code)
		w.Write(response)

		elapsed := time.Since(start)
		APIRequestCnt.WithLabelValues(name, strconv.Itoa(code)).Inc()
		APILatency.WithLabelValues(name).Observe(float64(elapsed.Milliseconds()))
		if code != http.StatusOK {
			sLog.Warningf("%d %s %s (%s) %s", code, req.Method, req.URL.RequestURI(), req.RemoteAddr, elapsed)
		} else {
			sLog.Debugf("%d %s %s (%s) %s", code, req.Method, req.URL.RequestURI(), req.RemoteAddr, elapsed)
		}
	}
}

func (s *Server) doPing(req *http.Request, ps httprouter.Params) (interface{}, error) {
	return "OK", nil
}

func queryFloat(req *http.Request, name string) (float64, error) {
	v, err := strconv.ParseFloat(req.FormValue(name), 64)
	if err != nil {
		return 0, httpErr{Code: http.StatusBadRequest, Text: "invalid " + name}
	}
	return v, nil
}

func queryChars(req *http.Request, def int) (int, error) {
	raw := req.FormValue("chars")
	if raw == "" {
		return def, nil
	}
	chars, err := strconv.Atoi(raw)
	if err != nil || chars < 1 || chars > geohash.MaxChars {
		return 0, httpErr{Code: http.StatusBadRequest, Text: "invalid chars"}
	}
	return chars, nil
}

func queryBox(req *http.Request) (geometry.Box, error) {
	var box geometry.Box
	var err error
	if box.Min.Lng, err = queryFloat(req, "min_lng"); err != nil {
		return box, err
	}
	if box.Min.Lat, err = queryFloat(req, "min_lat"); err != nil {
		return box, err
	}
	if box.Max.Lng, err = queryFloat(req, "max_lng"); err != nil {
		return box, err
	}
	if box.Max.Lat, err = queryFloat(req, "max_lat"); err != nil {
		return box, err
	}
	if !box.Valid() {
		return box, badRequest(geohash.ErrInvalidBox)
	}
	return box, nil
}

type encodeResult struct {
	Code string `json:"code"`
	Int  uint64 `json:"int"`
}

func (s *Server) doEncode(req *http.Request, ps httprouter.Params) (interface{}, error) {
	lng, err := queryFloat(req, "lng")
	if err != nil {
		return nil, err
	}
	lat, err := queryFloat(req, "lat")
	if err != nil {
		return nil, err
	}
	chars, err := queryChars(req, s.idx.Precision())
	if err != nil {
		return nil, err
	}
	point := geometry.Point{Lng: lng, Lat: lat}
	code, err := geohash.EncodeString(point, chars)
	if err != nil {
		return nil, badRequest(err)
	}
	intCode, _ := geohash.Encode(point, 5*chars)
	return encodeResult{Code: code, Int: intCode}, nil
}

type decodeResult struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

func (s *Server) doDecode(req *http.Request, ps httprouter.Params) (interface{}, error) {
	round := req.FormValue("round") == "true"
	point, err := geohash.DecodeString(req.FormValue("code"), round)
	if err != nil {
		return nil, badRequest(err)
	}
	return decodeResult{Lng: point.Lng, Lat: point.Lat}, nil
}

func (s *Server) doNeighbors(req *http.Request, ps httprouter.Params) (interface{}, error) {
	codes, err := geohash.NeighborsString(req.FormValue("code"))
	if err != nil {
		return nil, badRequest(err)
	}
	return codes, nil
}

func (s *Server) doBoxes(req *http.Request, ps httprouter.Params) (interface{}, error) {
	box, err := queryBox(req)
	if err != nil {
		return nil, err
	}
	chars, err := queryChars(req, s.idx.Precision())
	if err != nil {
		return nil, err
	}
	codes, err := geohash.BoundingBoxesString(&box, chars)
	if err != nil {
		return nil, badRequest(err)
	}
	return codes, nil
}

func (s *Server) doIndexBox(req *http.Request, ps httprouter.Params) (interface{}, error) {
	box, err := queryBox(req)
	if err != nil {
		return nil, err
	}
	codes, err := geohash.BoundingBoxesString(&box, s.idx.Precision())
	if err != nil {
		return nil, badRequest(err)
	}
	IndexQueryCells.WithLabelValues("index_box").Observe(float64(len(codes)))
	payloads, err := s.idx.Box(box)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(payloads))
	for i, p := range payloads {
		values[i] = string(p)
	}
	return values, nil
}

type appendItem struct {
	Lng   float64 `json:"lng"`
	Lat   float64 `json:"lat"`
	Value string  `json:"value"`
}

type appendRequest struct {
	Items []appendItem `json:"items"`
}

func (s *Server) doIndexAppend(req *http.Request, ps httprouter.Params) (interface{}, error) {
	body, err := ioutil.ReadAll(req.Body)
	if err != nil {
		return nil, badRequest(err)
	}
	var ar appendRequest
	if err = json.Unmarshal(body, &ar); err != nil {
		return nil, badRequest(err)
	}
	data := make(map[string][]byte, len(ar.Items))
	for _, item := range ar.Items {
		code, err := geohash.EncodeString(geometry.Point{Lng: item.Lng, Lat: item.Lat}, s.idx.Precision())
		if err != nil {
			return nil, badRequest(err)
		}
		data[code] = []byte(item.Value)
	}
	if err = s.idx.Append(data); err != nil {
		return nil, err
	}
	return map[string]int{"appended": len(data)}, nil
}
