package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/mamacker/FairyFun/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"modeOrWarmup": func(s string) string {
		if s == "" {
			return "WARMUP"
		}
		return s
	},
	"pct": func(v int) int {
		return v * 100 / 255
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="2">
<title>FairyFun</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.pulsing { color: #b07; font-weight: bold; }
.proximity { color: #07b; font-weight: bold; }
.warmup { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.degraded { color: red; font-weight: bold; }
.bar { background: #eee; width: 100%; height: 14px; }
.bar span { display: block; background: gold; height: 14px; }
</style>
</head>
<body>
<h1>FairyFun</h1>

<h2>Light</h2>
<table>
<tr><th>Mode</th><td class="{{if eq (modeOrWarmup (printf "%s" .Mode)) "PULSING"}}pulsing{{else if eq (modeOrWarmup (printf "%s" .Mode)) "PROXIMITY"}}proximity{{else}}warmup{{end}}">{{modeOrWarmup (printf "%s" .Mode)}}</td></tr>
<tr><th>Intensity</th><td>{{.Intensity}} / 255<div class="bar"><span style="width: {{pct .Intensity}}%"></span></div></td></tr>
<tr><th>Ready</th><td>{{if .Ready}}yes{{else}}warming up{{end}}</td></tr>
</table>

<h2>Sensor</h2>
<table>
<tr><th>Reading</th><td>{{.Reading}}</td></tr>
<tr><th>Baseline</th><td>{{.Baseline}}</td></tr>
<tr><th>Threshold</th><td>{{.Threshold}}</td></tr>
<tr><th>Health</th><td class="{{if .SensorOK}}connected{{else}}degraded{{end}}">{{if .SensorOK}}ok{{else}}DEGRADED{{end}}</td></tr>
<tr><th>Touches</th><td>{{.Touches}}</td></tr>
{{if not .LastTouch.IsZero}}<tr><th>Last touch</th><td>{{.LastTouch.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>{{end}}
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{if .Config.Broker}}{{.Config.Broker}}{{else}}disabled{{end}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}}ms</td></tr>
<tr><th>Warmup</th><td>{{.Config.WarmupMs}}ms</td></tr>
<tr><th>Light on</th><td>{{.Config.LightOnMs}}ms</td></tr>
<tr><th>Spread</th><td>{{.Config.Spread}}</td></tr>
<tr><th>Debug</th><td>{{if .Config.Debug}}on{{else}}off{{end}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> · <a href="/metrics">Metrics</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but the template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
