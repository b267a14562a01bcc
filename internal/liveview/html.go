package liveview

func setupHTML(errMsg string) string {
	return page("Create Password", `
		<form method="POST" action="/setup-password">
			<label for="password">Password</label>
			<input type="password" id="password" name="password" required autofocus>
			<label for="confirm">Confirm Password</label>
			<input type="password" id="confirm" name="confirm" required>
			<button type="submit">Set Password</button>
		</form>`, errMsg)
}

func loginHTML(errMsg string) string {
	return page("Live Viewer", `
		<form method="POST" action="/login">
			<label for="password">Password</label>
			<input type="password" id="password" name="password" required autofocus>
			<button type="submit">Login</button>
		</form>`, errMsg)
}

func page(title, body, errMsg string) string {
	errorBlock := ""
	if errMsg != "" {
		errorBlock = `<div class="error">` + errMsg + `</div>`
	}
	return `<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>` + title + `</title>
<style>
body{font-family:monospace;background:#1a1a1a;color:#c0c0c0;height:100vh;display:flex;align-items:center;justify-content:center}
.card{background:#0a0a0a;border:1px solid #333;border-radius:8px;padding:40px;width:360px}
h1{color:#00ff00;font-size:18px;margin-bottom:16px}
label{display:block;margin-bottom:6px;font-size:13px;color:#888}
input{width:100%;padding:10px;background:#1a1a1a;border:1px solid #333;border-radius:4px;color:#c0c0c0;margin-bottom:16px}
button{width:100%;padding:10px;background:#00ff00;border:none;border-radius:4px;font-weight:bold;cursor:pointer}
.error{background:#3a1010;border:1px solid #ff4444;color:#ff6666;padding:10px;border-radius:4px;margin-bottom:16px;font-size:13px}
</style></head><body><div class="card"><h1>` + title + `</h1>` + errorBlock + body + `</div></body></html>`
}

const viewerHTML = `<!DOCTYPE html>
<html><head><meta charset="UTF-8"><title>script-tty live</title>
<link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/xterm@5.3.0/css/xterm.css" />
<script src="https://cdn.jsdelivr.net/npm/xterm@5.3.0/lib/xterm.js"></script>
<style>body{margin:0;background:#0a0a0a}#t{padding:10px}</style>
</head><body><div id="t"></div>
<script>
const term = new Terminal({cursorBlink:false, disableStdin:true, fontSize:14});
term.open(document.getElementById('t'));
const ws = new WebSocket('ws://' + location.host + '/ws');
ws.binaryType = 'arraybuffer';
ws.onmessage = (e) => term.write(new Uint8Array(e.data));
ws.onclose = () => term.writeln('\r\n\x1b[31mdisconnected\x1b[0m');
</script></body></html>`
