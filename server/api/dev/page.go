package dev

// playPageHTML 是內嵌的操作頁。
//
// UI 行為：
//   - 連上 /v1/ws 後以推播事件更新轉輪、餘額與訊息；斷線 1 秒後自動重連。
//   - 按鈕狀態完全依 state.can_spin / can_raise / can_lower。
//   - cue 欄位只用 WebAudio 產生短音，不載入音檔。
//   - Sim 區塊呼叫 /dev/sim，只顯示 summary。
const playPageHTML = `<!doctype html>
<html lang="zh-Hant">
<head>
  <meta charset="utf-8" />
  <title>Fruit Slot</title>
  <style>
    body { font-family: -apple-system,BlinkMacSystemFont,"Segoe UI",sans-serif; background:#0f172a; color:#e2e8f0; margin:0; }
    .wrap { max-width: 560px; margin: 32px auto; padding: 20px; background:#111827; border:1px solid #1f2937; border-radius:12px; }
    h1 { margin: 0 0 16px; font-size: 22px; }
    .reels { display:flex; justify-content:center; gap:12px; margin: 18px 0; }
    .reel { width:96px; height:96px; display:flex; align-items:center; justify-content:center; font-size:56px; background:#0b1224; border:1px solid #1f2738; border-radius:12px; }
    .spinning .reel { filter: blur(1px); }
    .row { display:flex; gap:10px; align-items:center; justify-content:center; margin: 10px 0; }
    button { cursor:pointer; border:none; border-radius:10px; padding:10px 14px; font-weight:600; }
    button:disabled { opacity:0.4; cursor:not-allowed; }
    #btn-spin { background:#38bdf8; color:#0b1224; min-width:120px; }
    .bet { background:#1f2937; color:#e2e8f0; border:1px solid #334155; }
    #msg { text-align:center; min-height:24px; font-size:18px; }
    #msg.win { color:#22c55e; }
    #msg.warn { color:#fbbf24; }
    table { width:100%; border-collapse:collapse; font-size:14px; margin-top:12px; }
    td { padding:4px 8px; border-bottom:1px solid #1f2937; }
    details { margin-top:16px; }
    input { background:#0b1224; color:#e2e8f0; border:1px solid #1f2738; border-radius:8px; padding:6px 8px; width:110px; }
    pre { background:#0b1224; padding:10px; border-radius:8px; overflow:auto; font-size:12px; }
  </style>
</head>
<body>
<div class="wrap">
  <h1 id="title">Fruit Slot</h1>
  <div class="row">Credits: <b id="credits">-</b>&nbsp;&nbsp;Bet: <b id="bet">-</b></div>
  <div class="reels" id="reels"><div class="reel">?</div><div class="reel">?</div><div class="reel">?</div></div>
  <div id="msg"></div>
  <div class="row">
    <button class="bet" id="btn-down">- Bet</button>
    <button id="btn-spin">SPIN</button>
    <button class="bet" id="btn-up">+ Bet</button>
  </div>
  <table id="paytable"></table>
  <details>
    <summary>Simulation</summary>
    <div class="row">
      <input id="sim-rounds" type="number" value="100000" />
      <input id="sim-seed" placeholder="seed" />
      <button class="bet" id="btn-sim">Run</button>
    </div>
    <pre id="sim-out"></pre>
  </details>
</div>
<script>
let ws = null, state = null, audio = null;
const $ = (id) => document.getElementById(id);

function beep(cue) {
  if (!cue) return;
  audio = audio || new (window.AudioContext || window.webkitAudioContext)();
  const o = audio.createOscillator(), g = audio.createGain();
  o.frequency.value = cue === "win" ? 880 : cue === "spin" ? 330 : 600;
  g.gain.value = 0.05;
  o.connect(g); g.connect(audio.destination);
  o.start(); o.stop(audio.currentTime + (cue === "win" ? 0.3 : 0.05));
}

function setReels(reels, spinning) {
  const box = $("reels");
  box.classList.toggle("spinning", !!spinning);
  box.querySelectorAll(".reel").forEach((el, i) => { el.textContent = reels[i] || "?"; });
}

function setMsg(text, cls) {
  const el = $("msg");
  el.textContent = text || "";
  el.className = cls || "";
}

function render(st) {
  state = st;
  $("title").textContent = st.game;
  $("credits").textContent = st.credits;
  $("bet").textContent = st.bet;
  $("btn-spin").disabled = !st.can_spin;
  $("btn-up").disabled = !st.can_raise;
  $("btn-down").disabled = !st.can_lower;
  setReels(st.reels, st.phase === "spinning");
}

function send(cmd) {
  if (ws && ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(cmd));
}

function onEvent(env) {
  beep(env.cue);
  const d = env.data;
  switch (env.type) {
  case "state":
    render(d);
    if (d.last_result) setMsg(d.last_result.message, d.last_result.kind === "win" ? "win" : "");
    break;
  case "spin_started":
    setMsg("");
    send({type: "state"});
    break;
  case "reels_updated":
    setReels(d.reels, d.phase === "spinning");
    break;
  case "spin_result":
    setMsg(d.outcome.message, d.outcome.kind === "win" ? "win" : d.outcome.kind === "rejected" ? "warn" : "");
    send({type: "state"});
    break;
  case "bet_changed":
  case "bet_rejected":
    send({type: "state"});
    break;
  case "error":
    setMsg(d.message, "warn");
    break;
  }
}

function connect() {
  const proto = location.protocol === "https:" ? "wss://" : "ws://";
  ws = new WebSocket(proto + location.host + "/v1/ws");
  ws.onmessage = (m) => onEvent(JSON.parse(m.data));
  ws.onclose = () => setTimeout(connect, 1000);
}

async function loadPaytable() {
  const res = await fetch("/v1/paytable");
  const pt = await res.json();
  $("paytable").innerHTML = pt.entries.map(e => "<tr><td>" + e.combo.join(" ") + "</td><td>" + e.pay + "</td></tr>").join("");
}

async function runSim() {
  $("sim-out").textContent = "running...";
  const body = { bet: state ? state.bet : 0, rounds: Number($("sim-rounds").value), seed: $("sim-seed").value, workers: 4 };
  const res = await fetch("/dev/sim", { method: "POST", headers: {"Content-Type": "application/json"}, body: JSON.stringify(body) });
  const text = await res.text();
  try { $("sim-out").textContent = JSON.stringify(JSON.parse(text).report.Summary, null, 2); }
  catch (e) { $("sim-out").textContent = text; }
}

$("btn-spin").onclick = () => send({type: "spin"});
$("btn-up").onclick = () => send({type: "bet", delta: state ? state.bet_increment : 0});
$("btn-down").onclick = () => send({type: "bet", delta: state ? -state.bet_increment : 0});
$("btn-sim").onclick = runSim;

loadPaytable();
connect();
</script>
</body>
</html>`
