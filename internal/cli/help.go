package cli

// protocolFormat documents the wire frame format and CLI usage, appended to the default cobra
// help output — the same "default help, then a protocol appendix" shape as the teacher's own
// uriFormat footer (internal/cli/help.go), adapted from a multi-transport URI grammar to a single
// fixed wire format since this tool has exactly one protocol, not a composable chain of layers.
const protocolFormat = `Wire Frame Format:

	magic(4=0x434C4157 "CLAW") | version(2=0x0001) | flags(2=0x0000) | length(4) | iv(12) | tag(16) | ciphertext(length)

	length is 1..8192. The key is derived from the -k password via PBKDF2-HMAC-SHA256
	(100000 iterations) and used with AES-256-GCM for every frame; iv is fresh per frame.

Modes:
	Listen:  clawcat -l -k <password> -p <port> [-c] [-v]
	Connect: clawcat -k <password> [-c] [-v] [-w sec] host port

Examples:
	clawcat -l -k "correct horse battery staple" -p 9000
	clawcat -k "correct horse battery staple" 10.0.0.5 9000
	clawcat -l -k secret -p 9000 -c                  (chat mode, requires a real terminal on both ends)
	clawcat -l -k secret -p 9000 -e /bin/sh          (pipe the session to a subprocess instead of stdio)

Flags:
	-k, --key        pre-shared password (required)
	-l, --listen     listen for a single inbound connection instead of connecting out
	-p, --port       local port to listen on (required with -l; unused otherwise)
	-c, --chat       decorate the session with timestamped, role-labeled chat lines
	-w, --timeout    connect timeout in seconds (connect mode only; 0 disables the timeout)
	-e, --exec       pipe the relayed session through this subprocess's stdio instead of the local terminal
	-v               increase verbosity; repeatable (-v, -vv)

In connect mode, host and port are positional arguments, not flags.
`
