package config

// DefaultCEXAddresses is the curated list of known exchange and custodial
// addresses excluded from whale rankings. Exact match only.
var DefaultCEXAddresses = []string{
	// Binance
	"34xp4vRoCGJym3xR7yCVPFHoCNxv4Twseo",
	"3M219KR5vEneNb47ewrPfWyb5jQ2DjxRP6",
	"bc1qm34lsc65zpw79lxes69zkqmk6ee3ewf0j77s3h",
	"1NDyJtNTjmwk5xPNhjgAMu4HDHigtobu1s",
	"3LYJfcfHPXYJreMsASk2jkn69LWEYKzexb",
	"3JZq4atUahhuA9rLhXLMhhTo133J9rF97j",
	"39884E3j6KZj82FK4hA3t6K5UMRSSamHdC",
	"3HcEUoSEQEbNjLnHwvLLibajtFShhBJi3M",
	"bc1qr4dl5wa7kl8yu792dceg9z5knl2gkn220lk7a9",
	"bc1qjasf9z3h7w3jspkhtgatgpyvvzgpa2wwd2lr0eh5tx44reyn2k7sfl6t6c",
	"bc1ql49ydapnjafl5t2cp9zqpjwe6pdgmxy98859v2",
	// Bitfinex
	"bc1qgdjqv0av3q56jvd82tkdjpy7gdp9ut8tlqmgrpmv24sq90ecnvqqjwvw97",
	"1Kr6QSydW9bFQG1mXiPNNu6WpJGmUa9i1g",
	// Coinbase
	"3FHNBLobJnbCTFTVakh5TXmEneyf5PT61B",
	"3Kzh9qAqVWQhEsfQz7zEQL1EuSx5tyNLNS",
	"3FM6FypcrSVhdHh7KqBDvKTiXFCVRVHBZh",
	"bc1qjh0akslml59uuczddqu0y4p3vj64hg5kxzwf9k",
	"bc1q7cyrfmck2ffu2ud3rn5l5a8yv6f0chkp0zpemf",
	"395xkFtQVeos4qiCkhNphAg4CDHb8TpEfm",
	"3CySiMbeSkhPbcZNXbXYrAiGKmoney3aSU",
	// Kraken
	"3AfWk15VsMKp8VJnBt3Qpd9ayqiMBpijh1",
	"3FupZp77ySr7jwoLYEJ9mwzJpvoNBXsBnE",
	"bc1qxfhwwh6z47x3g08k5jnc27k3nx5q4k8cqycat0",
	// Gemini
	"36NkTqCAApfRJBKicQaqrdKs29g6hyE4LSP",
	"3D2oetdNuZUqQHPJmcMDDHYoqkyNVsFk9r",
	// Bitstamp
	"3P3QsMVK89JBNqZQv5zMAKG8FK3kJM4rjt",
	"3BitnP5v17WpVKSUoseFqEjGQCETv6rkRk",
	// OKX
	"1FzWLkAahHooV3kzTgyx6qsXoRDrBYBMU4",
	"1Lhurpe3VYtfWZmVFLTwGjz7u3dSCnYiir",
	// Huobi / HTX
	"1HckjUpRGcrrRAtFaaCAUaGjsPx9oYmLaZ",
	"14u4nA5sugaSwb6SZgn5av2vuChdMnD9E5",
	// Bybit
	"bc1qlh83hwfx3e2fpuqjnmhm7y4h54ehtggmfvalh3",
	// Crypto.com
	"3LQUu4v9z6KNch71j7kbj8GPeAGUo1FW6a",
	"3Gk6bRDHLi6c7UHqePYRBCkPSweQ3LhURU",
	// Robinhood
	"3EmUH8Uh9EXE7axgyAeBsCc2vdUdKkDqWK",
	"bc1qr35hws365juz5rtlsjtvmlu578guf5zy5kf5v3",
	// Mt.Gox Trustee
	"17A16QmavnUfCW11DAApiJxp7ARnxN5pGX",
	"1AsHPP7WcGRsBkYLpSv7HAEjFnBBjPFkv1",
	"1HeHLv7ZRFxWUVjuWkWT2gECuLYBs2HPKD",
	// US Government Seized
	"bc1qa5wkgaew2dkv56kc6hp24cc2nidak9namkqree",
	// Grayscale GBTC
	"3Cbq7aT1tY8kMxWLbitaG7yT6bPbKChq64",
	"3LQQTBh992TcnW3Pi3mn42tAF3cQqLp5YJ",
	// Block.one
	"3BtZ3VN4GTPieFHDyqAJjhNpYqxa5qDiAA",
	// Tether Treasury
	"1NTMakcgVwQpMdGxRQnFKCNDZQFRkqqvJ1",
	// Upbit (Mr. 100)
	"3FaBxEFBpSLCzFGCPQFyQEfwGMRyjoZGAT",
}

// DefaultCEXLabels are custodial entity name fragments matched
// case-insensitively against rich-list owner labels.
var DefaultCEXLabels = []string{
	"binance", "coinbase", "bitfinex", "kraken", "gemini",
	"bitstamp", "okex", "okx", "huobi", "htx", "bybit",
	"crypto.com", "robinhood", "upbit", "bithumb", "bitflyer",
	"kucoin", "gate.io", "mexc", "bitget", "deribit",
	"bittrex", "poloniex", "luno", "blockchain.com",
}
