package svg

// XML namespace URIs recognized in slide documents.
const (
	NSSVG      = "http://www.w3.org/2000/svg"
	NSInkscape = "http://www.inkscape.org/namespaces/inkscape"
	NSSodipodi = "http://sodipodi.sourceforge.net/DTD/sodipodi-0.0.dtd"
	NSXLink    = "http://www.w3.org/1999/xlink"
	NSXHTML    = "http://www.w3.org/1999/xhtml"
	NSXML      = "http://www.w3.org/XML/1998/namespace"

	// NSSdv is the namespace of the attributes and elements this tool
	// adds to processed documents.
	NSSdv = "https://xmlns.sdv.dev/sdv/v1"
)

// nsPrefix is the prefix used when writing NSSdv attributes.
const nsPrefix = "sdv"
