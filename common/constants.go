package common

const (
	SrcFileExtension = ".mc"
	ModuleFileName   = "minic-mod.toml"
	MinicVersion     = "0.1.0"
	TableFileName    = "grammar.ptable"
)
