package printer

type Status struct {
	Online  bool   `json:"online"`
	Printer string `json:"printer,omitempty"`
	Message string `json:"message,omitempty"`
}

type Config struct {
	PrinterName string `json:"printerName"`
	Host        string `json:"host,omitempty"`
	Port        int    `json:"port,omitempty"`
	PaperWidth  int    `json:"paperWidth,omitempty"`
	AutoPrint   bool   `json:"autoPrint"`
}
