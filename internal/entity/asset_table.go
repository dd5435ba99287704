package entity

// DefaultAssets is the built-in asset table. Market data ids follow CoinGecko,
// exchange symbols follow Binance spot USDT pairs.
func DefaultAssets() []Asset {
	return []Asset{
		{ID: "bitcoin", Name: "Bitcoin", Ticker: "BTC", ExchangeSymbol: "BTCUSDT", MarketDataID: "bitcoin",
			Aliases: []string{"биткоин", "биткойн", "бтк"}},
		{ID: "ethereum", Name: "Ethereum", Ticker: "ETH", ExchangeSymbol: "ETHUSDT", MarketDataID: "ethereum",
			Aliases: []string{"ether", "эфириум", "эфир", "эфира", "эфиром", "этериум"}},
		{ID: "binancecoin", Name: "BNB", Ticker: "BNB", ExchangeSymbol: "BNBUSDT", MarketDataID: "binancecoin",
			Aliases: []string{"binance coin", "binance", "бинанс", "бинанс коин", "бнб"}},
		{ID: "solana", Name: "Solana", Ticker: "SOL", ExchangeSymbol: "SOLUSDT", MarketDataID: "solana",
			Aliases: []string{"солана"}},
		{ID: "ripple", Name: "XRP", Ticker: "XRP", ExchangeSymbol: "XRPUSDT", MarketDataID: "ripple",
			Aliases: []string{"ripple", "рипл", "риппл"}},
		{ID: "cardano", Name: "Cardano", Ticker: "ADA", ExchangeSymbol: "ADAUSDT", MarketDataID: "cardano",
			Aliases: []string{"кардано"}},
		{ID: "dogecoin", Name: "Dogecoin", Ticker: "DOGE", ExchangeSymbol: "DOGEUSDT", MarketDataID: "dogecoin",
			Aliases: []string{"догикоин", "дожкоин", "доги"}},
		{ID: "tron", Name: "TRON", Ticker: "TRX", ExchangeSymbol: "TRXUSDT", MarketDataID: "tron",
			Aliases: []string{"трон", "трона", "троном"}},
		{ID: "avalanche-2", Name: "Avalanche", Ticker: "AVAX", ExchangeSymbol: "AVAXUSDT", MarketDataID: "avalanche-2",
			Aliases: []string{"аваланч", "авакс"}},
		{ID: "shiba-inu", Name: "Shiba Inu", Ticker: "SHIB", ExchangeSymbol: "SHIBUSDT", MarketDataID: "shiba-inu",
			Aliases: []string{"shiba", "шиба ину", "шиба"}},
		{ID: "polkadot", Name: "Polkadot", Ticker: "DOT", ExchangeSymbol: "DOTUSDT", MarketDataID: "polkadot",
			Aliases: []string{"полкадот"}, AmbiguousTicker: true},
		{ID: "chainlink", Name: "Chainlink", Ticker: "LINK", ExchangeSymbol: "LINKUSDT", MarketDataID: "chainlink",
			Aliases: []string{"чейнлинк"}, AmbiguousTicker: true},
		{ID: "litecoin", Name: "Litecoin", Ticker: "LTC", ExchangeSymbol: "LTCUSDT", MarketDataID: "litecoin",
			Aliases: []string{"лайткоин"}},
		{ID: "polygon-ecosystem-token", Name: "Polygon", Ticker: "POL", ExchangeSymbol: "POLUSDT", MarketDataID: "polygon-ecosystem-token",
			Aliases: []string{"matic", "полигон"}},
		{ID: "bitcoin-cash", Name: "Bitcoin Cash", Ticker: "BCH", ExchangeSymbol: "BCHUSDT", MarketDataID: "bitcoin-cash",
			Aliases: []string{"биткоин кэш", "биткоин кеш"}},
		{ID: "near", Name: "NEAR Protocol", Ticker: "NEAR", ExchangeSymbol: "NEARUSDT", MarketDataID: "near",
			Aliases: []string{"неар"}, AmbiguousTicker: true},
		{ID: "uniswap", Name: "Uniswap", Ticker: "UNI", ExchangeSymbol: "UNIUSDT", MarketDataID: "uniswap",
			Aliases: []string{"юнисвоп"}, AmbiguousTicker: true},
		{ID: "internet-computer", Name: "Internet Computer", Ticker: "ICP", ExchangeSymbol: "ICPUSDT", MarketDataID: "internet-computer",
			Aliases: []string{"интернет компьютер"}},
		{ID: "ethereum-classic", Name: "Ethereum Classic", Ticker: "ETC", ExchangeSymbol: "ETCUSDT", MarketDataID: "ethereum-classic",
			Aliases: []string{"эфириум классик"}, AmbiguousTicker: true},
		{ID: "aptos", Name: "Aptos", Ticker: "APT", ExchangeSymbol: "APTUSDT", MarketDataID: "aptos",
			Aliases: []string{"аптос"}},
		{ID: "stellar", Name: "Stellar", Ticker: "XLM", ExchangeSymbol: "XLMUSDT", MarketDataID: "stellar",
			Aliases: []string{"стеллар"}},
		{ID: "cosmos", Name: "Cosmos", Ticker: "ATOM", ExchangeSymbol: "ATOMUSDT", MarketDataID: "cosmos"},
		{ID: "filecoin", Name: "Filecoin", Ticker: "FIL", ExchangeSymbol: "FILUSDT", MarketDataID: "filecoin",
			Aliases: []string{"файлкоин"}},
		{ID: "arbitrum", Name: "Arbitrum", Ticker: "ARB", ExchangeSymbol: "ARBUSDT", MarketDataID: "arbitrum",
			Aliases: []string{"арбитрум"}},
		{ID: "optimism", Name: "Optimism", Ticker: "OP", ExchangeSymbol: "OPUSDT", MarketDataID: "optimism",
			AmbiguousTicker: true},
		{ID: "hedera-hashgraph", Name: "Hedera", Ticker: "HBAR", ExchangeSymbol: "HBARUSDT", MarketDataID: "hedera-hashgraph",
			Aliases: []string{"hedera hashgraph", "хедера"}},
		{ID: "vechain", Name: "VeChain", Ticker: "VET", ExchangeSymbol: "VETUSDT", MarketDataID: "vechain",
			Aliases: []string{"вечейн"}},
		{ID: "the-graph", Name: "The Graph", Ticker: "GRT", ExchangeSymbol: "GRTUSDT", MarketDataID: "the-graph"},
		{ID: "aave", Name: "Aave", Ticker: "AAVE", ExchangeSymbol: "AAVEUSDT", MarketDataID: "aave",
			Aliases: []string{"ааве"}},
		{ID: "sui", Name: "Sui", Ticker: "SUI", ExchangeSymbol: "SUIUSDT", MarketDataID: "sui",
			Aliases: []string{"суи"}},
		{ID: "the-open-network", Name: "Toncoin", Ticker: "TON", ExchangeSymbol: "TONUSDT", MarketDataID: "the-open-network",
			Aliases: []string{"тонкоин"}, AmbiguousTicker: true},
		{ID: "pepe", Name: "Pepe", Ticker: "PEPE", ExchangeSymbol: "PEPEUSDT", MarketDataID: "pepe",
			Aliases: []string{"пепе"}},
		{ID: "algorand", Name: "Algorand", Ticker: "ALGO", ExchangeSymbol: "ALGOUSDT", MarketDataID: "algorand",
			Aliases: []string{"алгоранд"}},
		{ID: "injective-protocol", Name: "Injective", Ticker: "INJ", ExchangeSymbol: "INJUSDT", MarketDataID: "injective-protocol",
			Aliases: []string{"инжектив"}},
		{ID: "immutable-x", Name: "Immutable", Ticker: "IMX", ExchangeSymbol: "IMXUSDT", MarketDataID: "immutable-x",
			Aliases: []string{"immutable x"}},
		{ID: "the-sandbox", Name: "The Sandbox", Ticker: "SAND", ExchangeSymbol: "SANDUSDT", MarketDataID: "the-sandbox",
			Aliases: []string{"sandbox", "сэндбокс"}, AmbiguousTicker: true},
		{ID: "decentraland", Name: "Decentraland", Ticker: "MANA", ExchangeSymbol: "MANAUSDT", MarketDataID: "decentraland",
			Aliases: []string{"децентраленд"}},
		{ID: "axie-infinity", Name: "Axie Infinity", Ticker: "AXS", ExchangeSymbol: "AXSUSDT", MarketDataID: "axie-infinity",
			Aliases: []string{"axie", "акси инфинити"}},
		{ID: "compound-governance-token", Name: "Compound", Ticker: "COMP", ExchangeSymbol: "COMPUSDT", MarketDataID: "compound-governance-token",
			AmbiguousTicker: true},
		{ID: "curve-dao-token", Name: "Curve DAO", Ticker: "CRV", ExchangeSymbol: "CRVUSDT", MarketDataID: "curve-dao-token",
			Aliases: []string{"curve"}},
		{ID: "lido-dao", Name: "Lido DAO", Ticker: "LDO", ExchangeSymbol: "LDOUSDT", MarketDataID: "lido-dao",
			Aliases: []string{"lido", "лидо"}},
		{ID: "usd-coin", Name: "USD Coin", Ticker: "USDC", ExchangeSymbol: "USDCUSDT", MarketDataID: "usd-coin"},
		{ID: "pancakeswap-token", Name: "PancakeSwap", Ticker: "CAKE", ExchangeSymbol: "CAKEUSDT", MarketDataID: "pancakeswap-token",
			Aliases: []string{"панкейксвоп"}, AmbiguousTicker: true},
		{ID: "blockstack", Name: "Stacks", Ticker: "STX", ExchangeSymbol: "STXUSDT", MarketDataID: "blockstack",
			Aliases: []string{"стакс"}},
		{ID: "theta-token", Name: "Theta Network", Ticker: "THETA", ExchangeSymbol: "THETAUSDT", MarketDataID: "theta-token",
			Aliases: []string{"theta"}},
		{ID: "tezos", Name: "Tezos", Ticker: "XTZ", ExchangeSymbol: "XTZUSDT", MarketDataID: "tezos",
			Aliases: []string{"тезос"}},
		{ID: "zcash", Name: "Zcash", Ticker: "ZEC", ExchangeSymbol: "ZECUSDT", MarketDataID: "zcash",
			Aliases: []string{"зкеш", "зеткэш"}},
		{ID: "worldcoin-wld", Name: "Worldcoin", Ticker: "WLD", ExchangeSymbol: "WLDUSDT", MarketDataID: "worldcoin-wld",
			Aliases: []string{"ворлдкоин"}},
		{ID: "bonk", Name: "Bonk", Ticker: "BONK", ExchangeSymbol: "BONKUSDT", MarketDataID: "bonk",
			Aliases: []string{"бонк"}},
		{ID: "floki", Name: "FLOKI", Ticker: "FLOKI", ExchangeSymbol: "FLOKIUSDT", MarketDataID: "floki",
			Aliases: []string{"флоки"}},
	}
}

// NewDefaultAssetTable builds the table from DefaultAssets.
func NewDefaultAssetTable() (*AssetTable, error) {
	return NewAssetTable(DefaultAssets())
}
