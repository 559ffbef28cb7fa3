package cmd

import "github.com/silentmatt/dss-sub000/pkg"

var (
	ErrYAMLMarshal = pkg.NewError("marshal YAML")
	ErrWriteConfig = pkg.NewError("write configuration file")
	ErrFileExists  = pkg.NewError("file exists (use --force to overwrite)")
	ErrNoInput     = pkg.NewError("no input files matched")
	ErrPattern     = pkg.NewError("invalid input pattern")
	ErrOpenInput   = pkg.NewError("open input")
	ErrWriteOutput = pkg.NewError("write output")
	ErrCompile     = pkg.NewError("compilation failed")

	ErrOutputCollision = pkg.NewError("inputs share an output file name")
)
