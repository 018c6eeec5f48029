package server

type ServerConfig struct {
	HTTPAddress string `flag:"http-address"`

	Engine    string `flag:"engine"`
	DataDir   string `flag:"data-dir" cfg:"data_dir"`
	Precision int    `flag:"precision"`
	Compress  bool   `flag:"compress"`

	LogLevel int32  `flag:"log-level" cfg:"log_level"`
	LogDir   string `flag:"log-dir" cfg:"log_dir"`
}

func NewServerConfig() *ServerConfig {
	return &ServerConfig{
		HTTPAddress: "0.0.0.0:18003",

		Engine:    "mem",
		Precision: 3,
		Compress:  true,

		LogLevel: 1,
		LogDir:   "",
	}
}
