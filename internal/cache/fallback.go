package cache

import "nft-persona-lab/internal/domain"

// fallbackCollections is the static dataset served when the gateway is
// unreachable. Values are literals, not fetched.
var fallbackCollections = []domain.Collection{
	{
		ContractAddress: "0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D",
		Name:            "Bored Ape Yacht Club",
		Symbol:          "BAYC",
		TotalSupply:     domain.IntPtr(10000),
		OwnerCount:      domain.IntPtr(5500),
		ImageURL:        "https://placehold.co/400x400?text=BAYC",
		OpenseaURL:      "https://opensea.io/assets/ethereum/0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D",
		EtherscanURL:    "https://etherscan.io/address/0xBC4CA0EdA7647A8aB7C2061c2E118A18a936f13D",
	},
	{
		ContractAddress: "0xb47e3cd837dDF8e4c57F05d70Ab865de6e193BBB",
		Name:            "CryptoPunks",
		Symbol:          "PUNK",
		TotalSupply:     domain.IntPtr(10000),
		OwnerCount:      domain.IntPtr(3800),
		ImageURL:        "https://placehold.co/400x400?text=PUNK",
		OpenseaURL:      "https://opensea.io/assets/ethereum/0xb47e3cd837dDF8e4c57F05d70Ab865de6e193BBB",
		EtherscanURL:    "https://etherscan.io/address/0xb47e3cd837dDF8e4c57F05d70Ab865de6e193BBB",
	},
	{
		ContractAddress: "0xED5AF388653567Af2F388E6224dC7C4b3241C544",
		Name:            "Azuki",
		Symbol:          "AZUKI",
		TotalSupply:     domain.IntPtr(10000),
		OwnerCount:      domain.IntPtr(4300),
		ImageURL:        "https://placehold.co/400x400?text=AZUKI",
		OpenseaURL:      "https://opensea.io/assets/ethereum/0xED5AF388653567Af2F388E6224dC7C4b3241C544",
		EtherscanURL:    "https://etherscan.io/address/0xED5AF388653567Af2F388E6224dC7C4b3241C544",
	},
	{
		ContractAddress: "0x8a90CAb2b38dba80c64b7734e58Ee1dB38B8992e",
		Name:            "Doodles",
		Symbol:          "DOODLE",
		TotalSupply:     domain.IntPtr(10000),
		OwnerCount:      domain.IntPtr(4900),
		ImageURL:        "https://placehold.co/400x400?text=DOODLE",
		OpenseaURL:      "https://opensea.io/assets/ethereum/0x8a90CAb2b38dba80c64b7734e58Ee1dB38B8992e",
		EtherscanURL:    "https://etherscan.io/address/0x8a90CAb2b38dba80c64b7734e58Ee1dB38B8992e",
	},
}

// FallbackCollections returns a copy of the static fallback dataset.
func FallbackCollections() []domain.Collection {
	out := make([]domain.Collection, len(fallbackCollections))
	copy(out, fallbackCollections)
	return out
}
