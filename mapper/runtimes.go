package mapper

// Deprecated Lambda runtimes and their nearest supported successor.
var runtimeSuccessors = map[string]string{
	"nodejs":        "nodejs20.x",
	"nodejs4.3":     "nodejs20.x",
	"nodejs6.10":    "nodejs20.x",
	"nodejs8.10":    "nodejs20.x",
	"nodejs10.x":    "nodejs20.x",
	"nodejs12.x":    "nodejs20.x",
	"nodejs14.x":    "nodejs20.x",
	"nodejs16.x":    "nodejs20.x",
	"python2.7":     "python3.12",
	"python3.6":     "python3.12",
	"python3.7":     "python3.12",
	"python3.8":     "python3.12",
	"ruby2.5":       "ruby3.3",
	"ruby2.7":       "ruby3.3",
	"java8":         "java8.al2",
	"go1.x":         "provided.al2023",
	"provided":      "provided.al2023",
	"dotnetcore1.0": "dotnet8",
	"dotnetcore2.0": "dotnet8",
	"dotnetcore2.1": "dotnet8",
	"dotnetcore3.1": "dotnet8",
	"dotnet6":       "dotnet8",
}

func successorRuntime(runtime string) (string, bool) {
	successor, ok := runtimeSuccessors[runtime]
	return successor, ok
}
