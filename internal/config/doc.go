// Package config provides configuration parsing for quill tools.
//
// The configuration is stored in quill.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "counter",
//	  "scheduler": {
//	    "maxRecursion": 100
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "quill"
//	  },
//	  "tracing": {
//	    "enabled": false,
//	    "tracerName": "quill"
//	  },
//	  "serve": {
//	    "addr": "localhost:9090"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	logger := cfg.Logger(os.Stderr)
//	q := scheduler.New(nil, scheduler.WithMaxRecursion(cfg.Scheduler.MaxRecursion))
package config
