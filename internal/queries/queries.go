// Package queries holds the manipulation-detection SQL executed against XTDB
// after ingestion. The queries lean on XTDB's temporal predicates
// (FOR SYSTEM_TIME / FOR VALID_TIME) to recognize the shapes the scenario
// synthesizers emit.
package queries

// Names in execution order.
var Names = []string{
	"layering",
	"wash_trading",
	"spoofing",
	"momentum_ignition",
}

// Detection maps a scenario name to its detection query.
var Detection = map[string]string{
	"layering":          layeringSQL,
	"wash_trading":      washTradingSQL,
	"spoofing":          spoofingSQL,
	"momentum_ignition": momentumIgnitionSQL,
}

// layeringSQL finds clusters of same-side orders followed by a larger
// opposing trade and rapid cancellations.
const layeringSQL = `
WITH layering_sequence AS (
    SELECT
        t1._id as sequence_id,
        t1.symbol,
        t1.side as layer_side,
        t1.counterparty_id,
        t1._valid_from as sequence_start,
        t1._valid_to as sequence_end,
        COUNT(*) OVER (
            PARTITION BY t1.symbol, t1.counterparty_id
            ORDER BY t1._valid_from
            RANGE BETWEEN
                INTERVAL '2 minutes' PRECEDING AND
                CURRENT ROW
        ) as num_orders_in_sequence
    FROM trades FOR SYSTEM_TIME AS OF CURRENT_TIMESTAMP t1
    WHERE t1.trade_status = 'executed'
),
potential_layers AS (
    SELECT
        ls.*,
        t2._id as opposing_trade_id,
        t2.quantity as opposing_quantity,
        t2._valid_from as opposing_trade_time
    FROM layering_sequence ls
    JOIN trades FOR SYSTEM_TIME AS OF CURRENT_TIMESTAMP t2
        ON t2.symbol = ls.symbol
        AND t2.counterparty_id = ls.counterparty_id
        AND t2.side != ls.layer_side
        AND t2._valid_from > ls.sequence_start
        AND t2._valid_from < ls.sequence_end + INTERVAL '5 minutes'
    WHERE ls.num_orders_in_sequence >= 4
)
SELECT
    pl.*,
    c.risk_rating,
    c.account_type,
    AVG(t.price) OVER (
        PARTITION BY pl.sequence_id
        ORDER BY t._valid_from
    ) as avg_layer_price
FROM potential_layers pl
JOIN trades FOR SYSTEM_TIME AS OF CURRENT_TIMESTAMP t
    ON t.symbol = pl.symbol
    AND t._valid_from BETWEEN pl.sequence_start AND pl.sequence_end
JOIN counterparties FOR SYSTEM_TIME AS OF CURRENT_TIMESTAMP c
    ON pl.counterparty_id = c._id
WHERE EXISTS (
    SELECT 1
    FROM trades t_cancel
    WHERE t_cancel.trade_status = 'cancelled'
    AND t_cancel.symbol = pl.symbol
    AND t_cancel.counterparty_id = pl.counterparty_id
    AND t_cancel._valid_from BETWEEN
        pl.opposing_trade_time AND
        pl.opposing_trade_time + INTERVAL '1 minute'
)`

// washTradingSQL finds offsetting trades between related parties with
// matching prices and quantities inside a short window.
const washTradingSQL = `
WITH related_trades AS (
    SELECT
        t1._id as buy_trade_id,
        t2._id as sell_trade_id,
        t1.symbol,
        t1.quantity as buy_quantity,
        t2.quantity as sell_quantity,
        t1.price as buy_price,
        t2.price as sell_price,
        t1._valid_from as buy_time,
        t2._valid_from as sell_time,
        t1.counterparty_id as buyer_id,
        t2.counterparty_id as seller_id,
        ABS(t1.price - t2.price) / t1.price as price_diff_pct
    FROM trades FOR VALID_TIME AS OF CURRENT_TIMESTAMP t1
    JOIN trades FOR VALID_TIME AS OF CURRENT_TIMESTAMP t2
        ON t1.symbol = t2.symbol
        AND t1.side = 'B'
        AND t2.side = 'S'
        AND t2._valid_from > t1._valid_from
        AND t2._valid_from < t1._valid_from + INTERVAL '5 minutes'
    WHERE t1.trade_status = 'executed'
    AND t2.trade_status = 'executed'
)
SELECT
    rt.*,
    c1.beneficial_owner_id as buyer_owner,
    c2.beneficial_owner_id as seller_owner,
    c1.risk_rating as buyer_risk,
    c2.risk_rating as seller_risk
FROM related_trades rt
JOIN counterparties FOR VALID_TIME AS OF CURRENT_TIMESTAMP c1
    ON rt.buyer_id = c1._id
JOIN counterparties FOR VALID_TIME AS OF CURRENT_TIMESTAMP c2
    ON rt.seller_id = c2._id
WHERE c1.beneficial_owner_id = c2.beneficial_owner_id
AND rt.price_diff_pct < 0.001
AND ABS(rt.buy_quantity - rt.sell_quantity) < 10`

// spoofingSQL finds oversized quickly-cancelled orders with opposite-side
// executions during the spoof window.
const spoofingSQL = `
WITH large_orders AS (
    SELECT
        t._id,
        t.symbol,
        t.side,
        t.quantity,
        t.price,
        t.counterparty_id,
        t._valid_from as order_time,
        t._valid_to as cancel_time,
        AVG(t.quantity) OVER (
            PARTITION BY t.symbol
            ORDER BY t._valid_from
            RANGE BETWEEN
                INTERVAL '1 hour' PRECEDING AND
                CURRENT ROW
        ) as avg_order_size
    FROM trades FOR SYSTEM_TIME AS OF CURRENT_TIMESTAMP t
    WHERE t.trade_status IN ('pending', 'cancelled')
)
SELECT
    lo.*,
    c.risk_rating,
    c.account_type,
    COUNT(t_exec._id) as num_opposite_executions,
    SUM(t_exec.quantity) as total_opposite_quantity
FROM large_orders lo
JOIN counterparties FOR SYSTEM_TIME AS OF CURRENT_TIMESTAMP c
    ON lo.counterparty_id = c._id
LEFT JOIN trades FOR SYSTEM_TIME AS OF CURRENT_TIMESTAMP t_exec
    ON t_exec.symbol = lo.symbol
    AND t_exec.counterparty_id = lo.counterparty_id
    AND t_exec.side != lo.side
    AND t_exec.trade_status = 'executed'
    AND t_exec._valid_from BETWEEN
        lo.order_time AND
        COALESCE(lo.cancel_time, CURRENT_TIMESTAMP)
WHERE
    lo.quantity > 5 * lo.avg_order_size
    AND lo.cancel_time IS NOT NULL
    AND (lo.cancel_time - lo.order_time) < INTERVAL '5 minutes'
GROUP BY lo._id, lo.symbol, lo.side, lo.quantity, lo.price,
         lo.counterparty_id, lo.order_time, lo.cancel_time,
         lo.avg_order_size, c.risk_rating, c.account_type
HAVING COUNT(t_exec._id) > 0`

// momentumIgnitionSQL finds rapid price movements with elevated trade
// frequency followed by opposite-direction profit taking.
const momentumIgnitionSQL = `
WITH price_movements AS (
    SELECT
        symbol,
        _valid_from as time,
        price,
        LAG(price) OVER (
            PARTITION BY symbol
            ORDER BY _valid_from
        ) as prev_price,
        SUM(quantity) OVER (
            PARTITION BY symbol
            ORDER BY _valid_from
            RANGE BETWEEN
                INTERVAL '5 minutes' PRECEDING AND
                CURRENT ROW
        ) as rolling_volume,
        COUNT(*) OVER (
            PARTITION BY symbol
            ORDER BY _valid_from
            RANGE BETWEEN
                INTERVAL '5 minutes' PRECEDING AND
                CURRENT ROW
        ) as trade_frequency
    FROM trades FOR VALID_TIME AS OF CURRENT_TIMESTAMP
    WHERE trade_status = 'executed'
),
momentum_periods AS (
    SELECT
        symbol,
        time,
        price,
        (price - prev_price) / prev_price as price_change_pct,
        rolling_volume,
        trade_frequency,
        CASE
            WHEN ABS((price - prev_price) / prev_price) > 0.02
            AND trade_frequency >
                2 * AVG(trade_frequency) OVER (
                    PARTITION BY symbol
                )
            THEN 1
            ELSE 0
        END as momentum_flag
    FROM price_movements
    WHERE prev_price IS NOT NULL
)
SELECT
    t.counterparty_id,
    c.account_type,
    c.risk_rating,
    mp.symbol,
    mp.time as momentum_start,
    mp.price_change_pct,
    mp.rolling_volume
FROM momentum_periods mp
JOIN trades FOR VALID_TIME AS OF CURRENT_TIMESTAMP t
    ON t.symbol = mp.symbol
    AND t._valid_from BETWEEN
        mp.time AND
        mp.time + INTERVAL '10 minutes'
JOIN counterparties FOR VALID_TIME AS OF CURRENT_TIMESTAMP c
    ON t.counterparty_id = c._id
WHERE mp.momentum_flag = 1
GROUP BY t.counterparty_id, c.account_type, c.risk_rating,
         mp.symbol, mp.time, mp.price_change_pct, mp.rolling_volume
HAVING COUNT(*) > 5`
