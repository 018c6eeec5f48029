package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/absolute8511/glog"
	"github.com/judwhite/go-svc/svc"
	"github.com/mreiferson/go-options"

	"github.com/youzan/ZanGeoIndex/common"
	"github.com/youzan/ZanGeoIndex/index"
	"github.com/youzan/ZanGeoIndex/server"
	"github.com/youzan/ZanGeoIndex/store"
)

var (
	flagSet = flag.NewFlagSet("geohashd", flag.ExitOnError)

	config      = flagSet.String("config", "", "path to config file")
	showVersion = flagSet.Bool("version", false, "print version string")

	httpAddress = flagSet.String("http-address", "0.0.0.0:18003", "<addr>:<port> to listen on for HTTP clients")
	engine      = flagSet.String("engine", "mem", "storage engine (mem or pebble)")
	dataDir     = flagSet.String("data-dir", "", "directory for the persistent engine")
	precision   = flagSet.Int("precision", 3, "index precision in geohash characters")
	compress    = flagSet.Bool("compress", true, "compress stored payload lists")

	logLevel = flagSet.Int("log-level", 1, "log verbose level")
	logDir   = flagSet.String("log-dir", "", "directory for log file")
)

const version = "0.1.0"

type program struct {
	server *server.Server
}

func main() {
	defer glog.Flush()
	prg := &program{}
	if err := svc.Run(prg, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT, syscall.SIGINT); err != nil {
		log.Fatal(err)
	}
}

func (p *program) Init(env svc.Environment) error {
	if env.IsWindowsService() {
		dir := filepath.Dir(os.Args[0])
		return os.Chdir(dir)
	}
	return nil
}

func (p *program) Start() error {
	glog.InitWithFlag(flagSet)
	flagSet.Parse(os.Args[1:])

	fmt.Printf("geohashd v%s\n", version)
	if *showVersion {
		os.Exit(0)
	}

	var cfg map[string]interface{}
	if *config != "" {
		_, err := toml.DecodeFile(*config, &cfg)
		if err != nil {
			log.Fatalf("ERROR: failed to load config file %s - %s", *config, err.Error())
		}
	}

	conf := server.NewServerConfig()
	options.Resolve(conf, flagSet, cfg)
	if conf.LogDir != "" {
		glog.SetGLogDir(conf.LogDir)
	}
	glog.StartWorker(time.Second * 2)

	logger := &common.GLogger{}
	store.SetLogger(conf.LogLevel, logger)
	index.SetLogger(conf.LogLevel, logger)
	server.SetLogger(conf.LogLevel, logger)

	daemon, err := server.NewServer(conf)
	if err != nil {
		return err
	}
	daemon.Start()
	p.server = daemon
	return nil
}

func (p *program) Stop() error {
	if p.server != nil {
		p.server.Stop()
	}
	return nil
}
